package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLoggerMiddleware creates a middleware for logging HTTP requests
func RequestLoggerMiddleware(log Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		start := time.Now()

		c.Set("requestID", requestID)
		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    statusCode,
			"latency":   duration.String(),
			"requestID": requestID,
			"clientIP":  c.ClientIP(),
		}

		if userID, exists := c.Get("userID"); exists {
			fields["userID"] = userID
		}

		switch {
		case statusCode >= 500:
			log.LogWarn("Server error processing request", fields)
		case statusCode >= 400:
			log.LogWarn("Client error processing request", fields)
		default:
			log.LogInfo("Request completed", fields)
		}
	}
}
