package response

import (
	"time"

	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type PaymentResponse struct {
	ID             uuid.UUID   `json:"id"`
	BookingID      uuid.UUID   `json:"booking_id"`
	IdempotencyKey string      `json:"idempotency_key"`
	Attempt        int         `json:"attempt"`
	Amount         money.Money `json:"amount" swaggertype:"number"`
	TransactionID  *string     `json:"transaction_id,omitempty"`
	Status         string      `json:"status"`
	FailureReason  string      `json:"failure_reason,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// PaymentResultResponse reports a charge attempt together with the
// booking state it left behind.
type PaymentResultResponse struct {
	Payment       *PaymentResponse `json:"payment"`
	BookingStatus string           `json:"booking_status"`
	PaymentStatus string           `json:"payment_status"`
	Replayed      bool             `json:"replayed,omitempty"`
}

func FromPayResult(r *commands.PayResult) *PaymentResultResponse {
	b := r.Booking.Snapshot()
	return &PaymentResultResponse{
		Payment:       copyTo[PaymentResponse](r.Payment.Snapshot()),
		BookingStatus: b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
	}
}

func FromAttachResult(r *commands.AttachPaymentResult) *PaymentResultResponse {
	b := r.Booking.Snapshot()
	return &PaymentResultResponse{
		Payment:       copyTo[PaymentResponse](r.Payment.Snapshot()),
		BookingStatus: b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
		Replayed:      r.IsReplayed,
	}
}
