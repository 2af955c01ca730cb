package commands

import (
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/payment"
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type bookingPayload struct {
	BookingID     uuid.UUID             `json:"booking_id"`
	CarID         uuid.UUID             `json:"car_id"`
	UserID        uuid.UUID             `json:"user_id"`
	Status        booking.Status        `json:"status"`
	PaymentStatus booking.PaymentStatus `json:"payment_status"`
	TotalPrice    money.Money           `json:"total_price"`
	Discount      money.Money           `json:"discount"`
	PromotionID   *uuid.UUID            `json:"promotion_id,omitempty"`
	StartAt       time.Time             `json:"start_at"`
	EndAt         time.Time             `json:"end_at"`
}

func bookingEvent(topic string, b *booking.Booking, now time.Time) shared.Event {
	return shared.Event{
		Topic:       topic,
		AggregateID: b.ID(),
		OccurredAt:  now,
		Payload: bookingPayload{
			BookingID:     b.ID(),
			CarID:         b.CarID(),
			UserID:        b.UserID(),
			Status:        b.Status(),
			PaymentStatus: b.PaymentStatus(),
			TotalPrice:    b.TotalPrice(),
			Discount:      b.Discount(),
			PromotionID:   b.PromotionID(),
			StartAt:       b.Period().Start(),
			EndAt:         b.Period().End(),
		},
	}
}

type paymentPayload struct {
	BookingID      uuid.UUID      `json:"booking_id"`
	PaymentID      uuid.UUID      `json:"payment_id"`
	IdempotencyKey string         `json:"idempotency_key"`
	Attempt        int            `json:"attempt"`
	Amount         money.Money    `json:"amount"`
	Status         payment.Status `json:"status"`
	TransactionID  *string        `json:"transaction_id,omitempty"`
	FailureReason  string         `json:"failure_reason,omitempty"`
}

func paymentEvent(topic string, b *booking.Booking, p *payment.Payment, now time.Time) shared.Event {
	return shared.Event{
		Topic:       topic,
		AggregateID: b.ID(),
		OccurredAt:  now,
		Payload: paymentPayload{
			BookingID:      b.ID(),
			PaymentID:      p.ID(),
			IdempotencyKey: p.IdempotencyKey(),
			Attempt:        p.Attempt(),
			Amount:         p.Amount(),
			Status:         p.Status(),
			TransactionID:  p.TransactionID(),
			FailureReason:  p.FailureReason(),
		},
	}
}

type damagePayload struct {
	ReportID      uuid.UUID     `json:"report_id"`
	BookingID     uuid.UUID     `json:"booking_id"`
	CarID         uuid.UUID     `json:"car_id"`
	Status        damage.Status `json:"status"`
	EstimatedCost money.Money   `json:"estimated_cost"`
	ActualCost    *money.Money  `json:"actual_cost,omitempty"`
}

func damageEvent(topic string, r *damage.Report, now time.Time) shared.Event {
	return shared.Event{
		Topic:       topic,
		AggregateID: r.ID(),
		OccurredAt:  now,
		Payload: damagePayload{
			ReportID:      r.ID(),
			BookingID:     r.BookingID(),
			CarID:         r.CarID(),
			Status:        r.Status(),
			EstimatedCost: r.EstimatedCost(),
			ActualCost:    r.ActualCost(),
		},
	}
}
