package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// allowedHeaders lists the request headers browsers may send to the API,
// including the request id header echoed back by RequestID.
var allowedHeaders = []string{
	"Origin",
	"Content-Type",
	"Content-Length",
	"Accept",
	"Accept-Encoding",
	"Cache-Control",
	"Authorization",
	"X-Requested-With",
	RequestIDHeader,
}

// CORS builds the cross-origin policy for the API surface. Without arguments
// (or with a literal "*") every origin is admitted; pass the UI hosts from
// SERVER_ALLOWED_ORIGINS to restrict the daemon.
func CORS(origins ...string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders:     allowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
