package api

import (
	"errors"
	"net/http"

	reqdto "car-rental-api/internal/handler/dto/request"
	resdto "car-rental-api/internal/handler/dto/response"
	"car-rental-api/internal/handler/httperr"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/usecase/commands"
	"car-rental-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds     commands.PaymentCommands
	bookings queries.BookingQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, bookings queries.BookingQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, bookings: bookings}
}

// @Summary Pay for booking
// @Description Charge the booking total. A gateway timeout answers 202 and the booking stays pending until the provider callback arrives.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.PayRequest true "Payment request"
// @Success 200 {object} resdto.PaymentResultResponse
// @Success 202 {object} resdto.PaymentResultResponse "Outcome unknown"
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/payments [post]
func (h *PaymentHandler) Pay(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.PayRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cmds.Pay(c.Request.Context(), actor, req.ToInput(id))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resdto.FromPayResult(result))
	case result != nil && errors.Is(err, commands.ErrPaymentOutcomeUnknown):
		c.JSON(http.StatusAccepted, resdto.FromPayResult(result))
	case result != nil && errs.IsKind(err, errs.ErrPaymentFailed):
		httperr.Abort(c, err, resdto.FromPayResult(result))
	default:
		httperr.Abort(c, err, nil)
	}
}

// @Summary Payment provider callback
// @Description Record the definitive outcome of a charge. Authenticated by the shared callback secret.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Callback-Secret header string true "Shared callback secret"
// @Param request body reqdto.PaymentCallbackRequest true "Callback payload"
// @Success 200 {object} resdto.PaymentResultResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req reqdto.PaymentCallbackRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.cmds.HandleCallback(c.Request.Context(), req.ToInput())
	if err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAttachResult(result))
}

// @Summary Mark booking refunded
// @Description Record a refund issued at the provider (admin only)
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RefundRequest true "Refund reference"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.RefundRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.cmds.MarkRefunded(c.Request.Context(), actor, id, req.Reference); err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	view, err := h.bookings.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
