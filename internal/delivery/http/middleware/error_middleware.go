package middleware

import (
	"net/http"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := apperror.As(err); ok && appErr.Code < http.StatusInternalServerError {
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Never expose internal error details to clients.
		logger.L().Error("internal server error",
			zap.String("id", c.GetString(response.RequestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
