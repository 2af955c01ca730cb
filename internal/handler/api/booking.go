package api

import (
	"net/http"

	"car-rental-api/internal/domain/user"
	reqdto "car-rental-api/internal/handler/dto/request"
	resdto "car-rental-api/internal/handler/dto/response"
	"car-rental-api/internal/handler/httperr"
	"car-rental-api/internal/handler/middleware"
	"car-rental-api/internal/usecase/commands"
	"car-rental-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Book a car for [start_at, end_at). An unusable promotion code does not fail the booking; the reason is returned in promotion_rejection.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Success 200 {object} resdto.CreateBookingResponse "Replayed request"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}
	var req reqdto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), actor, req.ToInput(key))
	if err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	view, ok := h.load(c, actor, result.Booking.ID())
	if !ok {
		return
	}

	res := &resdto.CreateBookingResponse{
		BookingResponse:    view,
		PromotionRejection: result.PromotionRejection,
	}
	if result.IsReplayed {
		c.Header(middleware.HeaderIdempotentReplayed, "true")
		c.JSON(http.StatusOK, res)
		return
	}
	c.Header("Location", apiBasePath+"/bookings/"+view.ID.String())
	c.JSON(http.StatusCreated, res)
}

// @Summary Get booking
// @Description Get a booking by ID. Customers only see their own bookings.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, ok := h.load(c, actor, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List my bookings
// @Description List the caller's bookings, newest first, with keyset pagination
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-100)"
// @Param after query string false "Cursor from next_cursor of the previous page"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var q reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	var cursor *queries.Cursor
	if q.After != "" {
		cursor = &queries.Cursor{After: q.After}
	}
	items, next, err := h.q.ListMine(c.Request.Context(), actor, cursor, q.Limit)
	if err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingList(items, next))
}

// @Summary Update booking status
// @Description Move a booking along its lifecycle. Cancelling or completing a confirmed booking requires an admin.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingStatusRequest true "Target status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateBookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	next, err := req.ToStatus()
	if err != nil {
		httperr.Abort(c, err, nil)
		return
	}

	if _, err = h.cmds.UpdateStatus(c.Request.Context(), actor, id, next); err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	h.respond(c, actor, id)
}

// @Summary Cancel booking
// @Description Cancel a booking. Promotion usage is not released.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.cmds.Cancel(c.Request.Context(), actor, id); err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	h.respond(c, actor, id)
}

// @Summary Release promotion usage
// @Description Give back the promotion use consumed by a cancelled booking (admin only, at most once)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/promotion/release [post]
func (h *BookingHandler) ReleasePromotion(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.cmds.ReleasePromotion(c.Request.Context(), actor, id); err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	h.respond(c, actor, id)
}

func (h *BookingHandler) respond(c *gin.Context, actor user.Actor, id uuid.UUID) {
	view, ok := h.load(c, actor, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BookingHandler) load(c *gin.Context, actor user.Actor, id uuid.UUID) (*resdto.BookingResponse, bool) {
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.Abort(c, err, nil)
		return nil, false
	}
	return resdto.FromBookingView(view), true
}
