package request

import (
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReportDamageRequest struct {
	Description   string      `json:"description" binding:"required,max=2000"`
	EstimatedCost money.Money `json:"estimated_cost"`
}

func (r ReportDamageRequest) ToInput(bookingID uuid.UUID) commands.ReportDamageInput {
	return commands.ReportDamageInput{
		BookingID:     bookingID,
		Description:   r.Description,
		EstimatedCost: r.EstimatedCost,
	}
}

type ApproveDamageRequest struct {
	ActualCost money.Money `json:"actual_cost"`
	Notes      string      `json:"notes" binding:"max=2000"`
}

type RejectDamageRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}
