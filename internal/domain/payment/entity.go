package payment

import (
	"fmt"
	"time"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound   = errs.Sentinel("payment not found", errs.ErrNotFound)
	ErrInvalidAttempt    = errs.Sentinel("payment attempt must be positive", errs.ErrValidation)
	ErrSettled           = errs.Sentinel("payment is already settled", errs.ErrInvalidState)
	ErrMissingTxID       = errs.Sentinel("successful payment requires a transaction id", errs.ErrValidation)
	ErrInvalidTransition = errs.Sentinel("payment transition not allowed", errs.ErrInvalidState)
)

// keyNamespace scopes idempotency keys so they never collide with other
// UUIDv5 users of the same booking id.
var keyNamespace = uuid.MustParse("6c1f0a9e-3b52-4d8e-9a41-2f5c7d0b8e13")

// NewIdempotencyKey derives the key a charge attempt is sent with. The same
// booking and attempt always yield the same key.
func NewIdempotencyKey(bookingID uuid.UUID, attempt int) (string, error) {
	if attempt < 1 {
		return "", ErrInvalidAttempt
	}
	return uuid.NewSHA1(keyNamespace, []byte(fmt.Sprintf("%s:%d", bookingID, attempt))).String(), nil
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// IsSettled is true once the gateway gave a definitive answer.
func (s Status) IsSettled() bool {
	return s != StatusPending
}

// Payment is one charge attempt against a booking, keyed by its
// idempotency key.
type Payment struct {
	id             uuid.UUID
	bookingID      uuid.UUID
	idempotencyKey string
	attempt        int
	amount         money.Money
	transactionID  *string
	status         Status
	failureReason  string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewPendingPayment(id, bookingID uuid.UUID, attempt int, amount money.Money, now time.Time) (*Payment, error) {
	key, err := NewIdempotencyKey(bookingID, attempt)
	if err != nil {
		return nil, err
	}
	return &Payment{
		id:             id,
		bookingID:      bookingID,
		idempotencyKey: key,
		attempt:        attempt,
		amount:         amount,
		status:         StatusPending,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

type Snapshot struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	IdempotencyKey string
	Attempt        int
	Amount         money.Money
	TransactionID  *string
	Status         Status
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func Reconstruct(s Snapshot) *Payment {
	return &Payment{
		id:             s.ID,
		bookingID:      s.BookingID,
		idempotencyKey: s.IdempotencyKey,
		attempt:        s.Attempt,
		amount:         s.Amount,
		transactionID:  s.TransactionID,
		status:         s.Status,
		failureReason:  s.FailureReason,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
	}
}

func (p *Payment) Snapshot() Snapshot {
	return Snapshot{
		ID:             p.id,
		BookingID:      p.bookingID,
		IdempotencyKey: p.idempotencyKey,
		Attempt:        p.attempt,
		Amount:         p.amount,
		TransactionID:  p.transactionID,
		Status:         p.status,
		FailureReason:  p.failureReason,
		CreatedAt:      p.createdAt,
		UpdatedAt:      p.updatedAt,
	}
}

func (p *Payment) Succeed(transactionID string, now time.Time) error {
	if p.status.IsSettled() {
		return ErrSettled
	}
	if transactionID == "" {
		return ErrMissingTxID
	}
	p.transactionID = &transactionID
	p.status = StatusPaid
	p.failureReason = ""
	p.updatedAt = now
	return nil
}

func (p *Payment) Fail(transactionID, reason string, now time.Time) error {
	if p.status.IsSettled() {
		return ErrSettled
	}
	if transactionID != "" {
		p.transactionID = &transactionID
	}
	p.status = StatusFailed
	p.failureReason = reason
	p.updatedAt = now
	return nil
}

func (p *Payment) Refund(now time.Time) error {
	if p.status != StatusPaid {
		return errs.Wrapf(ErrInvalidTransition, "%s -> %s", p.status, StatusRefunded)
	}
	p.status = StatusRefunded
	p.updatedAt = now
	return nil
}

func (p *Payment) ID() uuid.UUID          { return p.id }
func (p *Payment) BookingID() uuid.UUID   { return p.bookingID }
func (p *Payment) IdempotencyKey() string { return p.idempotencyKey }
func (p *Payment) Attempt() int           { return p.attempt }
func (p *Payment) Amount() money.Money    { return p.amount }
func (p *Payment) TransactionID() *string { return p.transactionID }
func (p *Payment) Status() Status         { return p.status }
func (p *Payment) FailureReason() string  { return p.failureReason }
func (p *Payment) CreatedAt() time.Time   { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time   { return p.updatedAt }
