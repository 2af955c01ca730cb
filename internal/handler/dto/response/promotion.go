package response

import (
	"car-rental-api/internal/pkg/money"
	"car-rental-api/internal/usecase/queries"
)

type DiscountPreviewResponse struct {
	Code        string      `json:"code"`
	Amount      money.Money `json:"amount" swaggertype:"number"`
	Discount    money.Money `json:"discount" swaggertype:"number"`
	FinalAmount money.Money `json:"final_amount" swaggertype:"number"`
}

func FromDiscountPreview(v *queries.DiscountPreview) *DiscountPreviewResponse {
	return copyTo[DiscountPreviewResponse](v)
}
