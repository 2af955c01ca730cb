package api

import (
	"net/http"

	reqdto "car-rental-api/internal/handler/dto/request"
	resdto "car-rental-api/internal/handler/dto/response"
	"car-rental-api/internal/handler/httperr"
	"car-rental-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PromotionHandler struct {
	q queries.PromotionQueries
}

func NewPromotionHandler(q queries.PromotionQueries) *PromotionHandler {
	return &PromotionHandler{q: q}
}

// @Summary Preview discount
// @Description Validate a promotion code against a vehicle and amount without consuming it
// @Tags promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PreviewDiscountRequest true "Preview request"
// @Success 200 {object} resdto.DiscountPreviewResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /promotions/preview [post]
func (h *PromotionHandler) Preview(c *gin.Context) {
	var req reqdto.PreviewDiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	preview, err := h.q.PreviewDiscount(c.Request.Context(), req.Code, req.VehicleID, req.Amount)
	if err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDiscountPreview(preview))
}
