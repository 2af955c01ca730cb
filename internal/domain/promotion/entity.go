package promotion

import (
	"time"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrPromotionNotFound      = errs.Mark(errs.Sentinel("promotion not found", errs.ErrNotFound), errs.ErrPromotionRejected)
	ErrPromotionInvalid       = errs.Sentinel("promotion is inactive, expired or exhausted", errs.ErrPromotionRejected)
	ErrPromotionNotApplicable = errs.Sentinel("promotion does not apply to this vehicle", errs.ErrPromotionRejected)
	ErrPromotionBelowMinimum  = errs.Sentinel("booking amount is below the promotion minimum", errs.ErrPromotionRejected)
	ErrUsageLimitExhausted    = errs.Sentinel("promotion usage limit reached", errs.ErrPromotionRejected)
	ErrInvalidWindow          = errs.Sentinel("promotion validity window is inverted", errs.ErrValidation)
	ErrInvalidUsageLimit      = errs.Sentinel("promotion usage limit must be positive", errs.ErrValidation)
	ErrNegativeMinimum        = errs.Sentinel("minimum booking amount cannot be negative", errs.ErrValidation)
)

// Promotion is a discount code. Only its usage counter changes inside this
// service and only through the repository's conditional consume.
type Promotion struct {
	id                 uuid.UUID
	code               Code
	discount           Discount
	minBookingAmount   money.Money
	validFrom          time.Time
	validTo            time.Time
	usageLimit         int
	usedCount          int
	applicableVehicles []uuid.UUID
	active             bool
	createdAt          time.Time
	updatedAt          time.Time
}

type Params struct {
	ID                 uuid.UUID
	Code               string
	Discount           Discount
	MinBookingAmount   money.Money
	ValidFrom          time.Time
	ValidTo            time.Time
	UsageLimit         int
	UsedCount          int
	ApplicableVehicles []uuid.UUID
	Active             bool
}

func NewPromotion(p Params) (*Promotion, error) {
	code, err := NewCode(p.Code)
	if err != nil {
		return nil, err
	}
	if p.ValidTo.Before(p.ValidFrom) {
		return nil, ErrInvalidWindow
	}
	if p.UsageLimit <= 0 || p.UsedCount < 0 || p.UsedCount > p.UsageLimit {
		return nil, ErrInvalidUsageLimit
	}
	if p.MinBookingAmount.IsNegative() {
		return nil, ErrNegativeMinimum
	}

	return &Promotion{
		id:                 p.ID,
		code:               code,
		discount:           p.Discount,
		minBookingAmount:   p.MinBookingAmount,
		validFrom:          p.ValidFrom,
		validTo:            p.ValidTo,
		usageLimit:         p.UsageLimit,
		usedCount:          p.UsedCount,
		applicableVehicles: append([]uuid.UUID(nil), p.ApplicableVehicles...),
		active:             p.Active,
	}, nil
}

func ReconstructPromotion(p Params, createdAt, updatedAt time.Time) *Promotion {
	return &Promotion{
		id:                 p.ID,
		code:               Code(p.Code),
		discount:           p.Discount,
		minBookingAmount:   p.MinBookingAmount,
		validFrom:          p.ValidFrom,
		validTo:            p.ValidTo,
		usageLimit:         p.UsageLimit,
		usedCount:          p.UsedCount,
		applicableVehicles: p.ApplicableVehicles,
		active:             p.Active,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Validate checks the code against a prospective booking. Checks run in a
// fixed order: state and window, vehicle, then minimum amount.
func (p *Promotion) Validate(vehicleID uuid.UUID, bookingAmount money.Money, now time.Time) error {
	if !p.active || !p.IsWithinWindow(now) || p.IsExhausted() {
		return ErrPromotionInvalid
	}
	if !p.AppliesTo(vehicleID) {
		return ErrPromotionNotApplicable
	}
	if bookingAmount.LessThan(p.minBookingAmount) {
		return ErrPromotionBelowMinimum
	}
	return nil
}

// IsWithinWindow treats both bounds as inclusive.
func (p *Promotion) IsWithinWindow(t time.Time) bool {
	return !t.Before(p.validFrom) && !t.After(p.validTo)
}

func (p *Promotion) IsExhausted() bool {
	return p.usedCount >= p.usageLimit
}

// AppliesTo is true for every vehicle when the applicable set is empty.
func (p *Promotion) AppliesTo(vehicleID uuid.UUID) bool {
	if len(p.applicableVehicles) == 0 {
		return true
	}
	for _, id := range p.applicableVehicles {
		if id == vehicleID {
			return true
		}
	}
	return false
}

func (p *Promotion) CalculateDiscount(amount money.Money) money.Money {
	return p.discount.Amount(amount)
}

// Consume increments the in-memory counter under the same condition the
// repository applies atomically.
func (p *Promotion) Consume() error {
	if p.IsExhausted() {
		return ErrUsageLimitExhausted
	}
	p.usedCount++
	return nil
}

// Release gives back one usage slot. It reports false when nothing was used.
func (p *Promotion) Release() bool {
	if p.usedCount == 0 {
		return false
	}
	p.usedCount--
	return true
}

func (p *Promotion) ID() uuid.UUID                 { return p.id }
func (p *Promotion) Code() Code                    { return p.code }
func (p *Promotion) Discount() Discount            { return p.discount }
func (p *Promotion) MinBookingAmount() money.Money { return p.minBookingAmount }
func (p *Promotion) ValidFrom() time.Time          { return p.validFrom }
func (p *Promotion) ValidTo() time.Time            { return p.validTo }
func (p *Promotion) UsageLimit() int               { return p.usageLimit }
func (p *Promotion) UsedCount() int                { return p.usedCount }
func (p *Promotion) Active() bool                  { return p.active }
func (p *Promotion) CreatedAt() time.Time          { return p.createdAt }
func (p *Promotion) UpdatedAt() time.Time          { return p.updatedAt }

func (p *Promotion) ApplicableVehicles() []uuid.UUID {
	return append([]uuid.UUID(nil), p.applicableVehicles...)
}
