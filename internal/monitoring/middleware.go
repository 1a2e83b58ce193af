package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		// Process request
		c.Next()

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())

		metrics.RecordHTTPRequest(method, path, status, duration)
	}
}

// Timer measures operation duration
type Timer struct {
	start     time.Time
	metrics   *Metrics
	operation string
	record    func(status string, duration time.Duration)
}

// NewStoreTimer times one clipboard store query.
func NewStoreTimer(metrics *Metrics, operation string) *Timer {
	t := &Timer{start: time.Now(), metrics: metrics, operation: operation}
	t.record = func(status string, duration time.Duration) {
		metrics.RecordStoreQuery(operation, status, duration)
	}
	return t
}

// NewCapabilityTimer times one capability call.
func NewCapabilityTimer(metrics *Metrics, capability string) *Timer {
	t := &Timer{start: time.Now(), metrics: metrics, operation: capability}
	t.record = func(status string, duration time.Duration) {
		metrics.RecordCapabilityCall(capability, status, duration)
	}
	return t
}

// Stop stops the timer and records the duration
func (t *Timer) Stop(status string) {
	t.record(status, time.Since(t.start))
}
