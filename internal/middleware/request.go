package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/designmill-backend/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

type RequestMiddleware struct {
	log *logger.Logger
}

func NewRequestMiddleware(log *logger.Logger) *RequestMiddleware {
	middlewareLogger := log.With("Middleware", "RequestMiddleware")
	return &RequestMiddleware{log: middlewareLogger}
}

// Track tags every request with an id (honoring an inbound header) and
// logs method, path, status and latency on completion.
func (rm *RequestMiddleware) Track() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		start := time.Now()
		c.Next()

		rm.log.Info("Request handled",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
