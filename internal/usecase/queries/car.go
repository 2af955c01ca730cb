package queries

import (
	"context"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/car"
	"car-rental-api/internal/infra"
	"car-rental-api/internal/pkg/errs"

	"github.com/google/uuid"
)

//go:generate mockgen -source=car.go -destination=../../testutil/mock/queriesmock/car.go -package=queriesmock

var ErrMissingQuotePeriod = errs.Sentinel("start and end are required", errs.ErrValidation)

type CarReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CarView, error)
}

type CarQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CarView, error)
	// Quote previews the price of renting the car over [start, end). Like
	// booking creation it floors the duration at one day.
	Quote(ctx context.Context, id uuid.UUID, start, end time.Time) (*QuoteView, error)
}

type carQueriesImpl struct {
	readStore CarReadStore
	pricing   booking.PriceCalculator
}

func NewCarQueries(readStore CarReadStore, pricing booking.PriceCalculator) CarQueries {
	return &carQueriesImpl{readStore: readStore, pricing: pricing}
}

func (q *carQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CarView, error) {
	c, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, car.ErrCarNotFound
		}
		return nil, err
	}
	return c, nil
}

func (q *carQueriesImpl) Quote(ctx context.Context, id uuid.UUID, start, end time.Time) (*QuoteView, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrMissingQuotePeriod
	}
	c, err := q.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	quote := q.pricing.Quote(start, end, c.DailyRate)
	return &QuoteView{
		CarID:        c.ID,
		StartAt:      start,
		EndAt:        end,
		DurationDays: quote.DurationDays,
		DailyRate:    quote.DailyRate,
		BasePrice:    quote.BasePrice,
	}, nil
}
