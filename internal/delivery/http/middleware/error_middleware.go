package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher-backend/internal/delivery/http/response"
	"resume-matcher-backend/pkg/apperror"
	"resume-matcher-backend/pkg/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				// Internal details stay server-side; the client gets a
				// generic message.
				logger.Log.Error("internal server error",
					"path", c.Request.URL.Path,
					"error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
