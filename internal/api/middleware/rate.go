package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"
	"golang.org/x/time/rate"

	"github.com/klipworks/klipflow/internal/config"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
	}
}

// FromConfig maps daemon configuration onto middleware settings.
func FromConfig(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}
}

const (
	clientTTL       = 10 * time.Minute
	cleanupInterval = time.Minute
)

// RateLimit creates a per-IP rate limiting middleware. Limiters for idle
// clients are evicted after clientTTL.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		for range time.Tick(cleanupInterval) {
			mu.Lock()
			for ip, cl := range clients {
				if time.Since(cl.lastSeen) > clientTTL {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cl, exists := clients[ip]
		if !exists {
			cl = &client{
				limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
			}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		limiter := cl.limiter
		mu.Unlock()

		if !limiter.Allow() {
			rejectTooManyRequests(c)
			return
		}

		c.Next()
	}
}

// GlobalRateLimit creates a rate limiting middleware shared by all clients.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			rejectTooManyRequests(c)
			return
		}
		c.Next()
	}
}

func rejectTooManyRequests(c *gin.Context) {
	problem := problems.NewStatusProblem(http.StatusTooManyRequests).
		WithInstance(c.Request.URL.Path).
		WithType("rate_limited").
		WithDetail("rate limit exceeded")

	c.AbortWithStatusJSON(http.StatusTooManyRequests, problem)
}
