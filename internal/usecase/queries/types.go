package queries

import (
	"time"

	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

// CarView is the read-only catalog entry of a rentable car.
type CarView struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	DailyRate money.Money `json:"daily_rate"`
	Available bool        `json:"available"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type QuoteView struct {
	CarID        uuid.UUID   `json:"car_id"`
	StartAt      time.Time   `json:"start_at"`
	EndAt        time.Time   `json:"end_at"`
	DurationDays int         `json:"duration_days"`
	DailyRate    money.Money `json:"daily_rate"`
	BasePrice    money.Money `json:"base_price"`
}

type BookingView struct {
	ID                  uuid.UUID   `json:"id"`
	CarID               uuid.UUID   `json:"car_id"`
	CarName             string      `json:"car_name"`
	UserID              uuid.UUID   `json:"user_id"`
	StartAt             time.Time   `json:"start_at"`
	EndAt               time.Time   `json:"end_at"`
	DurationDays        int         `json:"duration_days"`
	DailyRate           money.Money `json:"daily_rate"`
	BasePrice           money.Money `json:"base_price"`
	Discount            money.Money `json:"discount"`
	TotalPrice          money.Money `json:"total_price"`
	Status              string      `json:"status"`
	PaymentStatus       string      `json:"payment_status"`
	PaymentAttempts     int         `json:"payment_attempts"`
	PromotionID         *uuid.UUID  `json:"promotion_id,omitempty"`
	PromotionCode       *string     `json:"promotion_code,omitempty"`
	PromotionReleasedAt *time.Time  `json:"promotion_released_at,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type BookingListItem struct {
	ID            uuid.UUID   `json:"id"`
	CarID         uuid.UUID   `json:"car_id"`
	CarName       string      `json:"car_name"`
	StartAt       time.Time   `json:"start_at"`
	EndAt         time.Time   `json:"end_at"`
	TotalPrice    money.Money `json:"total_price"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	CreatedAt     time.Time   `json:"created_at"`
}

type DiscountPreview struct {
	Code        string      `json:"code"`
	Amount      money.Money `json:"amount"`
	Discount    money.Money `json:"discount"`
	FinalAmount money.Money `json:"final_amount"`
}

type DamageReportView struct {
	ID            uuid.UUID    `json:"id"`
	BookingID     uuid.UUID    `json:"booking_id"`
	BookingUserID uuid.UUID    `json:"booking_user_id"`
	CarID         uuid.UUID    `json:"car_id"`
	ReportedBy    uuid.UUID    `json:"reported_by"`
	Description   string       `json:"description"`
	EstimatedCost money.Money  `json:"estimated_cost"`
	ActualCost    *money.Money `json:"actual_cost,omitempty"`
	Status        string       `json:"status"`
	AdminNotes    *string      `json:"admin_notes,omitempty"`
	ResolvedAt    *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
