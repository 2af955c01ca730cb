package booking

import (
	"time"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

var ErrInvalidPeriod = errs.Sentinel("rental period must have a start before its end", errs.ErrValidation)

// Period is the half-open rental interval [start, end).
type Period struct {
	start time.Time
	end   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{start: start.UTC(), end: end.UTC()}, nil
}

func ReconstructPeriod(start, end time.Time) Period {
	return Period{start: start.UTC(), end: end.UTC()}
}

func (p Period) Start() time.Time { return p.start }
func (p Period) End() time.Time   { return p.end }

func (p Period) Overlaps(other Period) bool {
	return p.start.Before(other.end) && other.start.Before(p.end)
}

// AppliedPromotion is the promotion a booking consumed and the discount it
// was granted.
type AppliedPromotion struct {
	ID       uuid.UUID
	Code     string
	Discount money.Money
}
