//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"car-rental-api/internal/domain/booking"
	"car-rental-api/internal/handler/httperr"
	"car-rental-api/internal/handler/middleware"
	"car-rental-api/internal/testutil/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newErrorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CustomRecovery())
	r.Use(middleware.ErrorHandler())

	r.GET("/public", func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusConflict, errors.New("dup"), "already exists", nil)
	})
	r.GET("/private", func(c *gin.Context) {
		_ = c.Error(booking.ErrBookingNotFound)
	})
	r.GET("/unclassified", func(c *gin.Context) {
		_ = c.Error(errors.New("db connection reset"))
	})
	r.GET("/status-only", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestErrorHandler(t *testing.T) {
	router := newErrorRouter()

	t.Run("public errors keep their response", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/public", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "already exists")
	})

	t.Run("private errors are mapped by kind", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/private", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusNotFound, "booking not found")
	})

	t.Run("unclassified errors are masked", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/unclassified", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
		assert.NotContains(t, rec.Body.String(), "db connection reset")
	})

	t.Run("bare status passes through", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/status-only", nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("panics become 500", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/panic", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})
}
