package queries

import (
	"context"

	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/pkg/clock"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

//go:generate mockgen -source=promotion.go -destination=../../testutil/mock/queriesmock/promotion.go -package=queriesmock

var ErrNegativeAmount = errs.Sentinel("amount cannot be negative", errs.ErrValidation)

type PromotionReadStore interface {
	FindByCode(ctx context.Context, code promotion.Code) (*promotion.Promotion, error)
}

type PromotionQueries interface {
	// PreviewDiscount validates code against vehicleID and amount without
	// consuming it. Rejections are returned as errors.
	PreviewDiscount(ctx context.Context, code string, vehicleID uuid.UUID, amount money.Money) (*DiscountPreview, error)
}

type promotionQueriesImpl struct {
	readStore PromotionReadStore
	clock     clock.Clock
}

func NewPromotionQueries(readStore PromotionReadStore, clk clock.Clock) PromotionQueries {
	return &promotionQueriesImpl{readStore: readStore, clock: clk}
}

func (q *promotionQueriesImpl) PreviewDiscount(ctx context.Context, rawCode string, vehicleID uuid.UUID, amount money.Money) (*DiscountPreview, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	code, err := promotion.NewCode(rawCode)
	if err != nil {
		return nil, promotion.ErrPromotionNotFound
	}

	p, err := q.readStore.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, promotion.ErrPromotionNotFound
		}
		return nil, err
	}

	if err := p.Validate(vehicleID, amount, q.clock.Now()); err != nil {
		return nil, err
	}

	discount := p.CalculateDiscount(amount)
	return &DiscountPreview{
		Code:        p.Code().String(),
		Amount:      amount,
		Discount:    discount,
		FinalAmount: amount.Sub(discount),
	}, nil
}
