package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/arcanehq/realmgate/internal/models"
)

type contextKey string

// UserContextKey carries the authenticated admin's claims.
const UserContextKey contextKey = "user"

// AuthMiddleware validates the bearer token and injects the admin
// claims into the request context. Only access tokens pass.
func AuthMiddleware(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing or malformed authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			if claims.Type != "access" {
				http.Error(w, "token cannot be used for API access", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// GetUserFromContext retrieves admin claims from the request context.
// Returns nil when the request was not authenticated.
func GetUserFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
