package booking

import (
	"time"

	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound       = errs.Sentinel("booking not found", errs.ErrNotFound)
	ErrInvalidTransition     = errs.Sentinel("booking status transition not allowed", errs.ErrInvalidState)
	ErrInvalidPaymentChange  = errs.Sentinel("payment status transition not allowed", errs.ErrInvalidState)
	ErrBookingConflict       = errs.Mark(errs.Sentinel("car is already booked for an overlapping period", errs.ErrConflict), errs.ErrInvalidState)
	ErrAlreadyPaid           = errs.Sentinel("booking is already paid", errs.ErrInvalidState)
	ErrNotPayable            = errs.Sentinel("booking can no longer be paid", errs.ErrInvalidState)
	ErrNoPromotion           = errs.Sentinel("booking has no promotion to release", errs.ErrInvalidState)
	ErrPromotionReleased     = errs.Sentinel("promotion was already released", errs.ErrInvalidState)
	ErrReleaseNotCancelled   = errs.Sentinel("promotion can only be released from a cancelled booking", errs.ErrInvalidState)
	ErrAccessDenied          = errs.Sentinel("actor may not act on this booking", errs.ErrUnauthorized)
	ErrAdminRequired         = errs.Sentinel("transition requires an admin", errs.ErrUnauthorized)
	ErrNegativeTotal         = errs.Sentinel("total price cannot be negative", errs.ErrValidation)
	ErrDiscountExceedsAmount = errs.Sentinel("discount exceeds the base price", errs.ErrValidation)
)

type Booking struct {
	id                  uuid.UUID
	carID               uuid.UUID
	userID              uuid.UUID
	period              Period
	status              Status
	paymentStatus       PaymentStatus
	durationDays        int
	dailyRate           money.Money
	basePrice           money.Money
	discount            money.Money
	totalPrice          money.Money
	promotionID         *uuid.UUID
	promotionCode       string
	promotionReleasedAt *time.Time
	paymentAttempts     int
	createdAt           time.Time
	updatedAt           time.Time
}

// NewBooking creates a pending, unpaid booking priced from quote, less the
// discount of an applied promotion.
func NewBooking(
	id, carID, userID uuid.UUID,
	period Period,
	quote Quote,
	applied *AppliedPromotion,
	now time.Time,
) (*Booking, error) {
	discount := money.Zero
	var promotionID *uuid.UUID
	var code string
	if applied != nil {
		if applied.Discount.IsNegative() || quote.BasePrice.LessThan(applied.Discount) {
			return nil, ErrDiscountExceedsAmount
		}
		discount = applied.Discount
		pid := applied.ID
		promotionID = &pid
		code = applied.Code
	}

	total := quote.BasePrice.Sub(discount)
	if total.IsNegative() {
		return nil, ErrNegativeTotal
	}

	return &Booking{
		id:            id,
		carID:         carID,
		userID:        userID,
		period:        period,
		status:        StatusPending,
		paymentStatus: PaymentPending,
		durationDays:  quote.DurationDays,
		dailyRate:     quote.DailyRate,
		basePrice:     quote.BasePrice,
		discount:      discount,
		totalPrice:    total,
		promotionID:   promotionID,
		promotionCode: code,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

type Snapshot struct {
	ID                  uuid.UUID
	CarID               uuid.UUID
	UserID              uuid.UUID
	StartAt             time.Time
	EndAt               time.Time
	Status              Status
	PaymentStatus       PaymentStatus
	DurationDays        int
	DailyRate           money.Money
	BasePrice           money.Money
	Discount            money.Money
	TotalPrice          money.Money
	PromotionID         *uuid.UUID
	PromotionCode       string
	PromotionReleasedAt *time.Time
	PaymentAttempts     int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:                  s.ID,
		carID:               s.CarID,
		userID:              s.UserID,
		period:              ReconstructPeriod(s.StartAt, s.EndAt),
		status:              s.Status,
		paymentStatus:       s.PaymentStatus,
		durationDays:        s.DurationDays,
		dailyRate:           s.DailyRate,
		basePrice:           s.BasePrice,
		discount:            s.Discount,
		totalPrice:          s.TotalPrice,
		promotionID:         s.PromotionID,
		promotionCode:       s.PromotionCode,
		promotionReleasedAt: s.PromotionReleasedAt,
		paymentAttempts:     s.PaymentAttempts,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
	}
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:                  b.id,
		CarID:               b.carID,
		UserID:              b.userID,
		StartAt:             b.period.Start(),
		EndAt:               b.period.End(),
		Status:              b.status,
		PaymentStatus:       b.paymentStatus,
		DurationDays:        b.durationDays,
		DailyRate:           b.dailyRate,
		BasePrice:           b.basePrice,
		Discount:            b.discount,
		TotalPrice:          b.totalPrice,
		PromotionID:         b.promotionID,
		PromotionCode:       b.promotionCode,
		PromotionReleasedAt: b.promotionReleasedAt,
		PaymentAttempts:     b.paymentAttempts,
		CreatedAt:           b.createdAt,
		UpdatedAt:           b.updatedAt,
	}
}

// ChangeStatus moves the booking along one edge of the transition table on
// behalf of actor. On error the booking is left untouched.
func (b *Booking) ChangeStatus(actor user.Actor, next Status, now time.Time) error {
	if !actor.CanAccess(b.userID) {
		return ErrAccessDenied
	}
	if !next.IsValid() || !b.status.CanTransitionTo(next) {
		return errs.Wrapf(ErrInvalidTransition, "%s -> %s", b.status, next)
	}
	if b.status.requiresAdmin(next) && !actor.IsAdmin() {
		return ErrAdminRequired
	}
	b.status = next
	b.updatedAt = now
	return nil
}

// Cancel is the customer-facing cancellation. The owner may cancel a
// pending or confirmed booking. Payment and promotion usage are untouched.
func (b *Booking) Cancel(actor user.Actor, now time.Time) error {
	if !actor.CanAccess(b.userID) {
		return ErrAccessDenied
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return errs.Wrapf(ErrInvalidTransition, "%s -> %s", b.status, StatusCancelled)
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

// Expire cancels a booking that was never paid. It reports whether
// anything changed.
func (b *Booking) Expire(now time.Time) bool {
	if b.status != StatusPending || b.paymentStatus == PaymentPaid {
		return false
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return true
}

// EnsurePayable returns an error unless a charge may be attempted.
func (b *Booking) EnsurePayable() error {
	if b.paymentStatus == PaymentPaid || b.paymentStatus == PaymentRefunded {
		return ErrAlreadyPaid
	}
	if b.status == StatusCancelled || b.status == StatusCompleted {
		return ErrNotPayable
	}
	if !b.paymentStatus.IsSettleable() {
		return ErrNotPayable
	}
	return nil
}

// StartPaymentAttempt records that attempt was issued. Attempt numbers
// only move forward so a reused number maps to the same idempotency key.
func (b *Booking) StartPaymentAttempt(attempt int, now time.Time) {
	if attempt > b.paymentAttempts {
		b.paymentAttempts = attempt
		b.updatedAt = now
	}
}

func (b *Booking) NextPaymentAttempt() int {
	return b.paymentAttempts + 1
}

// MarkPaid settles the booking and confirms it if it was still pending.
func (b *Booking) MarkPaid(now time.Time) error {
	if b.paymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	if !b.paymentStatus.CanTransitionTo(PaymentPaid) {
		return errs.Wrapf(ErrInvalidPaymentChange, "%s -> %s", b.paymentStatus, PaymentPaid)
	}
	b.paymentStatus = PaymentPaid
	if b.status == StatusPending {
		b.status = StatusConfirmed
	}
	b.updatedAt = now
	return nil
}

func (b *Booking) MarkPaymentFailed(now time.Time) error {
	if !b.paymentStatus.CanTransitionTo(PaymentFailed) {
		return errs.Wrapf(ErrInvalidPaymentChange, "%s -> %s", b.paymentStatus, PaymentFailed)
	}
	b.paymentStatus = PaymentFailed
	b.updatedAt = now
	return nil
}

func (b *Booking) MarkRefunded(actor user.Actor, now time.Time) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	if !b.paymentStatus.CanTransitionTo(PaymentRefunded) {
		return errs.Wrapf(ErrInvalidPaymentChange, "%s -> %s", b.paymentStatus, PaymentRefunded)
	}
	b.paymentStatus = PaymentRefunded
	b.updatedAt = now
	return nil
}

// ReleasePromotion marks the consumed promotion slot as given back. Only an
// admin may do this, once, and only for a cancelled booking.
func (b *Booking) ReleasePromotion(actor user.Actor, now time.Time) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	if b.promotionID == nil {
		return ErrNoPromotion
	}
	if b.promotionReleasedAt != nil {
		return ErrPromotionReleased
	}
	if b.status != StatusCancelled {
		return ErrReleaseNotCancelled
	}
	b.promotionReleasedAt = &now
	b.updatedAt = now
	return nil
}

func (b *Booking) IsActive() bool {
	return b.status == StatusPending || b.status == StatusConfirmed
}

func (b *Booking) ID() uuid.UUID                   { return b.id }
func (b *Booking) CarID() uuid.UUID                { return b.carID }
func (b *Booking) UserID() uuid.UUID               { return b.userID }
func (b *Booking) Period() Period                  { return b.period }
func (b *Booking) Status() Status                  { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus    { return b.paymentStatus }
func (b *Booking) DurationDays() int               { return b.durationDays }
func (b *Booking) DailyRate() money.Money          { return b.dailyRate }
func (b *Booking) BasePrice() money.Money          { return b.basePrice }
func (b *Booking) Discount() money.Money           { return b.discount }
func (b *Booking) TotalPrice() money.Money         { return b.totalPrice }
func (b *Booking) PromotionID() *uuid.UUID         { return b.promotionID }
func (b *Booking) PromotionCode() string           { return b.promotionCode }
func (b *Booking) PromotionReleasedAt() *time.Time { return b.promotionReleasedAt }
func (b *Booking) PaymentAttempts() int            { return b.paymentAttempts }
func (b *Booking) CreatedAt() time.Time            { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time            { return b.updatedAt }
