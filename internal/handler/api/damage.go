package api

import (
	"net/http"

	"car-rental-api/internal/domain/damage"
	"car-rental-api/internal/domain/user"
	reqdto "car-rental-api/internal/handler/dto/request"
	resdto "car-rental-api/internal/handler/dto/response"
	"car-rental-api/internal/handler/httperr"
	"car-rental-api/internal/usecase/commands"
	"car-rental-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DamageHandler struct {
	cmds commands.DamageCommands
	q    queries.DamageQueries
}

func NewDamageHandler(cmds commands.DamageCommands, q queries.DamageQueries) *DamageHandler {
	return &DamageHandler{cmds: cmds, q: q}
}

// @Summary Report damage
// @Description File a damage report against a completed booking (admin only)
// @Tags damage-reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ReportDamageRequest true "Damage report"
// @Success 201 {object} resdto.DamageReportResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/damage-reports [post]
func (h *DamageHandler) Report(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.ReportDamageRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.cmds.Report(c.Request.Context(), actor, req.ToInput(bookingID))
	if err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	view, ok := h.load(c, actor, report.ID())
	if !ok {
		return
	}
	c.Header("Location", apiBasePath+"/damage-reports/"+view.ID.String())
	c.JSON(http.StatusCreated, view)
}

// @Summary Get damage report
// @Description Get a damage report. Customers only see reports on their own bookings.
// @Tags damage-reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Damage report ID"
// @Success 200 {object} resdto.DamageReportResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /damage-reports/{id} [get]
func (h *DamageHandler) Get(c *gin.Context) {
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

// @Summary Start damage review
// @Tags damage-reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Damage report ID"
// @Success 200 {object} resdto.DamageReportResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /damage-reports/{id}/review [post]
func (h *DamageHandler) MarkUnderReview(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*damage.Report, error) {
		return h.cmds.MarkUnderReview(c.Request.Context(), actor, id)
	})
}

// @Summary Approve damage report
// @Description Approve with the actual repair cost. A report can be approved once.
// @Tags damage-reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Damage report ID"
// @Param request body reqdto.ApproveDamageRequest true "Approval"
// @Success 200 {object} resdto.DamageReportResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /damage-reports/{id}/approve [post]
func (h *DamageHandler) Approve(c *gin.Context) {
	var req reqdto.ApproveDamageRequest
	h.transition(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*damage.Report, error) {
		return h.cmds.Approve(c.Request.Context(), actor, id, req.ActualCost, req.Notes)
	}, &req)
}

// @Summary Reject damage report
// @Tags damage-reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Damage report ID"
// @Param request body reqdto.RejectDamageRequest true "Rejection"
// @Success 200 {object} resdto.DamageReportResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /damage-reports/{id}/reject [post]
func (h *DamageHandler) Reject(c *gin.Context) {
	var req reqdto.RejectDamageRequest
	h.transition(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*damage.Report, error) {
		return h.cmds.Reject(c.Request.Context(), actor, id, req.Notes)
	}, &req)
}

// @Summary Resolve damage report
// @Tags damage-reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Damage report ID"
// @Success 200 {object} resdto.DamageReportResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /damage-reports/{id}/resolve [post]
func (h *DamageHandler) Resolve(c *gin.Context) {
	h.transition(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*damage.Report, error) {
		return h.cmds.Resolve(c.Request.Context(), actor, id)
	})
}

type damageTransition func(c *gin.Context, actor user.Actor, id uuid.UUID) (*damage.Report, error)

// transition binds the optional body, runs fn and answers with the
// reloaded report.
func (h *DamageHandler) transition(c *gin.Context, fn damageTransition, body ...any) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	for _, b := range body {
		if !bindJSON(c, b) {
			return
		}
	}
	if _, err := fn(c, actor, id); err != nil {
		httperr.Abort(c, err, nil)
		return
	}
	view, ok := h.load(c, actor, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DamageHandler) load(c *gin.Context, actor user.Actor, id uuid.UUID) (*resdto.DamageReportResponse, bool) {
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.Abort(c, err, nil)
		return nil, false
	}
	return resdto.FromDamageReportView(view), true
}
