package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/arcanehq/realmgate/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultAdminRateLimit returns the default rate limit config for admin
// endpoints (60 requests per minute)
func DefaultAdminRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 60,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Rate limit exceeded")
		}),
	)
}
