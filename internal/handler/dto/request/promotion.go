package request

import (
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

type PreviewDiscountRequest struct {
	Code      string      `json:"code" binding:"required,max=32"`
	VehicleID uuid.UUID   `json:"vehicle_id" binding:"required"`
	Amount    money.Money `json:"amount"`
}
