// Package middleware provides HTTP middleware for the klipflow daemon.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle eviction
//   - GlobalRateLimit: Single shared token bucket
//   - RequestID: ULID request tagging via X-Request-ID
//
// Rate limit rejections use the RFC 7807 problem shape the rest of the API
// emits.
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS("https://ui.example.com"))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
