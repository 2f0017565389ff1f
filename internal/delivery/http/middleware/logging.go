package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs basic request information with request ID.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("id", c.GetString(response.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", c.ClientIP()),
		}
		if userID := c.GetString(keyUserID); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.L().Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.L().Warn("request", fields...)
		default:
			logger.L().Info("request", fields...)
		}
	}
}

// Recovery logs panics and returns 500 with a generic message.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.L().Error("panic recovered",
					zap.String("id", c.GetString(response.RequestIDKey)),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Abort(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
		}()
		c.Next()
	}
}
