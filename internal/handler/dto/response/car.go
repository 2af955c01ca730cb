package response

import (
	"time"

	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type CarResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	DailyRate money.Money `json:"daily_rate" swaggertype:"number"`
	Available bool        `json:"available"`
}

func FromCarView(v *queries.CarView) *CarResponse {
	return copyTo[CarResponse](v)
}

type QuoteResponse struct {
	CarID        uuid.UUID   `json:"car_id"`
	StartAt      time.Time   `json:"start_at"`
	EndAt        time.Time   `json:"end_at"`
	DurationDays int         `json:"duration_days"`
	DailyRate    money.Money `json:"daily_rate" swaggertype:"number"`
	BasePrice    money.Money `json:"base_price" swaggertype:"number"`
}

func FromQuoteView(v *queries.QuoteView) *QuoteResponse {
	return copyTo[QuoteResponse](v)
}
