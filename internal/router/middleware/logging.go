package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexusqa/agents/pkg/logger"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// quietPaths are polled by infrastructure and not logged
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Logging logs requests and attaches a request id to the request context
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(
			logger.ContextWithFields(c.Request.Context(), logger.String("request_id", requestID)))

		// Process request
		c.Next()

		if quietPaths[path] {
			return
		}

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		log.WithContext(c.Request.Context()).Info("Request processed",
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.String("latency", latency.String()),
			logger.String("ip", c.ClientIP()),
		)
	}
}
