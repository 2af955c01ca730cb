package response

import (
	"time"

	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type DamageReportResponse struct {
	ID            uuid.UUID    `json:"id"`
	BookingID     uuid.UUID    `json:"booking_id"`
	CarID         uuid.UUID    `json:"car_id"`
	ReportedBy    uuid.UUID    `json:"reported_by"`
	Description   string       `json:"description"`
	EstimatedCost money.Money  `json:"estimated_cost" swaggertype:"number"`
	ActualCost    *money.Money `json:"actual_cost,omitempty" swaggertype:"number"`
	Status        string       `json:"status"`
	AdminNotes    *string      `json:"admin_notes,omitempty"`
	ResolvedAt    *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func FromDamageReportView(v *queries.DamageReportView) *DamageReportResponse {
	return copyTo[DamageReportResponse](v)
}
