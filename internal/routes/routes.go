package routes

import (
	"github.com/arcanehq/realmgate/internal/auth"
	"github.com/arcanehq/realmgate/internal/handlers"
	"github.com/arcanehq/realmgate/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	bruteForceUsersHandler *handlers.BruteForceUsersHandler,
	adminTokenHandler *handlers.AdminTokenHandler,
	tokenManager *auth.TokenManager,
) {
	// Prometheus scrape endpoint - unauthenticated, not rate limited
	router.Handle("/metrics", promhttp.Handler())

	// Credential exchange - public but tightly rate limited
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(middleware.RateLimitConfig{RequestsPerMinute: 5}))
		adminTokenHandler.RegisterRoutes(r)
	})

	// Admin API - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager))
		r.Use(middleware.RateLimitByIP(middleware.DefaultAdminRateLimit()))

		bruteForceUsersHandler.RegisterRoutes(r)
	})
}
