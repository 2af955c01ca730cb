package httperr

import (
	"errors"
	"net/http"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

const internalMessage = "Internal server error"

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort maps err by taxonomy kind and writes the error body. Domain errors
// expose their message; anything unclassified becomes a 500.
func Abort(c *gin.Context, err error, detail any) {
	status := StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = internalMessage
	}
	AbortWithError(c, status, err, msg, detail)
}

func StatusOf(err error) int {
	if errors.Is(err, commands.ErrPaymentOutcomeUnknown) {
		return http.StatusAccepted
	}
	switch errs.Kind(err) {
	case errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrConflict, errs.ErrInvalidState:
		return http.StatusConflict
	case errs.ErrValidation:
		return http.StatusBadRequest
	case errs.ErrPromotionRejected:
		return http.StatusUnprocessableEntity
	case errs.ErrPaymentFailed:
		return http.StatusPaymentRequired
	case errs.ErrUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
