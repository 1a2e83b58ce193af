package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/klipworks/klipflow/internal/shared/id"
)

// RequestIDHeader carries the request identifier across service boundaries.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID tags each request with a ULID. An inbound X-Request-ID header
// wins, so upstream proxies keep their correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = id.NewRequestID().String()
		}

		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID returns the identifier assigned by RequestID, or empty when
// the middleware did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
