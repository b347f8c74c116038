package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eventra/eventra-backend/internal/logger"
	"github.com/eventra/eventra-backend/internal/pkg/apperror"
)

// ErrorHandler turns errors attached to the gin context into JSON responses.
// AppError carries its own status code and client message; everything else
// is masked as an internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		statusCode := http.StatusInternalServerError
		message := "internal server error"
		code := apperror.ErrCodeInternal

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			statusCode = appErr.HTTPStatus
			message = appErr.Message
			code = appErr.Code
		}

		if logger.Log != nil {
			entry := logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"code":   code,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			})
			if statusCode >= http.StatusInternalServerError {
				entry.Error("request failed")
			} else {
				entry.Warn("request rejected")
			}
		}

		c.JSON(statusCode, gin.H{"error": message, "code": code})
	}
}
