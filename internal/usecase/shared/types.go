package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Endpoint        string
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

const (
	TopicBookingCreated       = "booking.created"
	TopicBookingStatusChanged = "booking.status_changed"
	TopicBookingCancelled     = "booking.cancelled"
	TopicBookingExpired       = "booking.expired"
	TopicPromotionReleased    = "promotion.released"
	TopicPaymentSucceeded     = "payment.succeeded"
	TopicPaymentFailed        = "payment.failed"
	TopicPaymentRefunded      = "payment.refunded"
	TopicDamageReported       = "damage.reported"
	TopicDamageReviewStarted  = "damage.under_review"
	TopicDamageApproved       = "damage.approved"
	TopicDamageRejected       = "damage.rejected"
	TopicDamageResolved       = "damage.resolved"
)

// Event is a domain event recorded in the outbox within the transaction
// that produced it.
type Event struct {
	Topic       string
	AggregateID uuid.UUID
	Payload     any
	OccurredAt  time.Time
}

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// OutboxMessage is a stored event awaiting relay. Payload is the encoded JSON.
type OutboxMessage struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	Attempts    int
	CreatedAt   time.Time
}
