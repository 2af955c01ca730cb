package middleware

import (
	"log/slog"
	"net/http"

	"car-rental-api/internal/handler/httperr"
	"car-rental-api/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLines = 12

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			status := httperr.StatusOf(e.Err)
			if resp, ok := e.Meta.(httperr.Response); ok {
				status = resp.Status
			}
			if status < http.StatusInternalServerError {
				continue
			}
			slog.ErrorContext(c.Request.Context(), "request failed",
				"path", c.FullPath(),
				"request_id", GetRequestID(c),
				"error", e.Err.Error(),
				"stack", errs.ExtractStackLines(e.Err, stackLines))
		}

		if c.Writer.Written() {
			return
		}
		// Search backward through the error stack
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]

			if err.IsType(gin.ErrorTypePublic) {
				// Public: Meta ⇒ Return as is
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}
		// Private errors pushed with c.Error are mapped by kind.
		if n := len(c.Errors); n > 0 {
			httperr.Abort(c, c.Errors[n-1].Err, nil)
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", "error", err, "path", c.Request.URL.Path)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"

				c.JSON(http.StatusInternalServerError, resp)
				c.Abort()
			}
		}()
		c.Next()
	}
}
