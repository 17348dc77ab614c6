package middleware

import (
	"log/slog"
	"time"

	"cash-flow/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	KeyRequestID    = "requestID"
)

// RequestLogger tags each request with an id and logs its completion at a
// level picked from the status code.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	log = logger.Component(log, logger.ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(KeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 400 && status < 500 {
			level = slog.LevelWarn
		} else if status >= 500 {
			level = slog.LevelError
		}

		duration := time.Since(start)
		attrs := []any{
			logger.FieldRequestID, requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", status,
			"duration_ms", duration.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, logger.FieldError, c.Errors.String())
		}
		log.Log(c.Request.Context(), level, "HTTP request completed", attrs...)
	}
}
