package request

import (
	"strings"
	"time"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	CarID         uuid.UUID `json:"car_id" binding:"required"`
	StartAt       time.Time `json:"start_at" binding:"required"`
	EndAt         time.Time `json:"end_at" binding:"required"`
	PromotionCode *string   `json:"promotion_code,omitempty" binding:"omitempty,max=32"`
}

func (r CreateBookingRequest) GetPromotionCode() *string {
	if r.PromotionCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.PromotionCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CreateBookingRequest) ToInput(idempotencyKey *uuid.UUID) commands.CreateBookingInput {
	return commands.CreateBookingInput{
		CarID:          r.CarID,
		StartAt:        r.StartAt,
		EndAt:          r.EndAt,
		PromotionCode:  r.GetPromotionCode(),
		IdempotencyKey: idempotencyKey,
	}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r UpdateBookingStatusRequest) ToStatus() (booking.Status, error) {
	return booking.ParseStatus(strings.ToLower(strings.TrimSpace(r.Status)))
}

type ListBookingsQuery struct {
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
	After string `form:"after"`
}
