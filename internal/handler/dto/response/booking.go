package response

import (
	"time"

	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID                  uuid.UUID   `json:"id"`
	CarID               uuid.UUID   `json:"car_id"`
	CarName             string      `json:"car_name"`
	UserID              uuid.UUID   `json:"user_id"`
	StartAt             time.Time   `json:"start_at"`
	EndAt               time.Time   `json:"end_at"`
	DurationDays        int         `json:"duration_days"`
	DailyRate           money.Money `json:"daily_rate" swaggertype:"number"`
	BasePrice           money.Money `json:"base_price" swaggertype:"number"`
	Discount            money.Money `json:"discount" swaggertype:"number"`
	TotalPrice          money.Money `json:"total_price" swaggertype:"number"`
	Status              string      `json:"status"`
	PaymentStatus       string      `json:"payment_status"`
	PaymentAttempts     int         `json:"payment_attempts"`
	PromotionCode       *string     `json:"promotion_code,omitempty"`
	PromotionReleasedAt *time.Time  `json:"promotion_released_at,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return copyTo[BookingResponse](v)
}

type CreateBookingResponse struct {
	*BookingResponse
	// PromotionRejection is set when a supplied code was not applied.
	PromotionRejection string `json:"promotion_rejection,omitempty"`
}

type BookingListItemResponse struct {
	ID            uuid.UUID   `json:"id"`
	CarID         uuid.UUID   `json:"car_id"`
	CarName       string      `json:"car_name"`
	StartAt       time.Time   `json:"start_at"`
	EndAt         time.Time   `json:"end_at"`
	TotalPrice    money.Money `json:"total_price" swaggertype:"number"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	CreatedAt     time.Time   `json:"created_at"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor *string                    `json:"next_cursor,omitempty"`
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) *BookingListResponse {
	res := &BookingListResponse{Items: make([]*BookingListItemResponse, len(items))}
	for i, it := range items {
		res.Items[i] = copyTo[BookingListItemResponse](it)
	}
	if next != nil && next.After != "" {
		res.NextCursor = &next.After
	}
	return res
}
