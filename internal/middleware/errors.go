package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthew8541/YelpCamp/internal/apperr"
)

// defaultErrorMessage is rendered when an error carries no message of its own.
const defaultErrorMessage = "Oh No, Something went wrong!"

// ErrorHandler is the terminal error middleware. Validation errors keep
// their status and aggregated message; anything else renders as a generic
// 500. Authentication, authorization and known not-found failures never
// reach this handler; they redirect at the point of failure.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := defaultErrorMessage

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			status = appErr.Status
			if appErr.Message != "" {
				message = appErr.Message
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		c.JSON(status, gin.H{"status": status, "message": message})
	}
}
