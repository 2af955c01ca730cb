package request

import (
	"car-rental-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type PayRequest struct {
	SourceToken string `json:"source_token" binding:"required"`
	// Attempt retries a previous attempt under its original key; omit to start a new one.
	Attempt int `json:"attempt" binding:"omitempty,min=1"`
}

func (r PayRequest) ToInput(bookingID uuid.UUID) commands.PayInput {
	return commands.PayInput{
		BookingID:   bookingID,
		SourceToken: r.SourceToken,
		Attempt:     r.Attempt,
	}
}

const (
	CallbackSucceeded = "succeeded"
	CallbackFailed    = "failed"
)

type PaymentCallbackRequest struct {
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
	TransactionID  string `json:"transaction_id"`
	Status         string `json:"status" binding:"required,oneof=succeeded failed"`
	FailureReason  string `json:"failure_reason"`
}

func (r PaymentCallbackRequest) ToInput() commands.CallbackInput {
	return commands.CallbackInput{
		IdempotencyKey: r.IdempotencyKey,
		TransactionID:  r.TransactionID,
		Succeeded:      r.Status == CallbackSucceeded,
		FailureReason:  r.FailureReason,
	}
}

type RefundRequest struct {
	Reference string `json:"reference" binding:"required,max=128"`
}
