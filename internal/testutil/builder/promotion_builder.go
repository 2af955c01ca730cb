//go:build unit || integration

package builder

import (
	"time"

	"car-rental-api/internal/domain/promotion"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PromotionBuilder struct {
	ID                 uuid.UUID
	Code               string
	Type               promotion.DiscountType
	Value              decimal.Decimal
	MaxDiscount        *money.Money
	MinBookingAmount   money.Money
	ValidFrom          time.Time
	ValidTo            time.Time
	UsageLimit         int
	UsedCount          int
	ApplicableVehicles []uuid.UUID
	Active             bool
}

// NewPromotionBuilder returns an active fixed 50 discount valid for a day
// around now.
func NewPromotionBuilder(now time.Time) *PromotionBuilder {
	return &PromotionBuilder{
		ID:               uuid.New(),
		Code:             "SAVE50",
		Type:             promotion.DiscountFixed,
		Value:            decimal.NewFromInt(50),
		MinBookingAmount: money.FromInt(500),
		ValidFrom:        now.Add(-24 * time.Hour),
		ValidTo:          now.Add(24 * time.Hour),
		UsageLimit:       10,
		Active:           true,
	}
}

func (b *PromotionBuilder) With(mutate func(*PromotionBuilder)) *PromotionBuilder {
	mutate(b)
	return b
}

func (b *PromotionBuilder) WithCode(code string) *PromotionBuilder {
	b.Code = code
	return b
}

func (b *PromotionBuilder) WithPercentage(pct int64) *PromotionBuilder {
	b.Type = promotion.DiscountPercentage
	b.Value = decimal.NewFromInt(pct)
	return b
}

func (b *PromotionBuilder) WithFixed(amount int64) *PromotionBuilder {
	b.Type = promotion.DiscountFixed
	b.Value = decimal.NewFromInt(amount)
	return b
}

func (b *PromotionBuilder) WithMaxDiscount(amount int64) *PromotionBuilder {
	m := money.FromInt(amount)
	b.MaxDiscount = &m
	return b
}

func (b *PromotionBuilder) WithMinBookingAmount(amount int64) *PromotionBuilder {
	b.MinBookingAmount = money.FromInt(amount)
	return b
}

func (b *PromotionBuilder) WithUsage(used, limit int) *PromotionBuilder {
	b.UsedCount = used
	b.UsageLimit = limit
	return b
}

func (b *PromotionBuilder) WithVehicles(ids ...uuid.UUID) *PromotionBuilder {
	b.ApplicableVehicles = ids
	return b
}

func (b *PromotionBuilder) Inactive() *PromotionBuilder {
	b.Active = false
	return b
}

func (b *PromotionBuilder) params() (promotion.Params, error) {
	discount, err := promotion.NewDiscount(b.Type, b.Value, b.MaxDiscount)
	if err != nil {
		return promotion.Params{}, err
	}
	return promotion.Params{
		ID:                 b.ID,
		Code:               b.Code,
		Discount:           discount,
		MinBookingAmount:   b.MinBookingAmount,
		ValidFrom:          b.ValidFrom,
		ValidTo:            b.ValidTo,
		UsageLimit:         b.UsageLimit,
		UsedCount:          b.UsedCount,
		ApplicableVehicles: b.ApplicableVehicles,
		Active:             b.Active,
	}, nil
}

func (b *PromotionBuilder) BuildDomain() (*promotion.Promotion, error) {
	p, err := b.params()
	if err != nil {
		return nil, err
	}
	return promotion.NewPromotion(p)
}

// MustBuild panics on invalid input; use it only for fixtures.
func (b *PromotionBuilder) MustBuild() *promotion.Promotion {
	p, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return p
}
