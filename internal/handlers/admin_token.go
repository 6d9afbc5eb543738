package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/arcanehq/realmgate/internal/models"
	pkghttp "github.com/arcanehq/realmgate/pkg/http"
	"github.com/go-chi/chi/v5"
)

// AdminAuthService defines the interface for credential exchange
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AdminTokenHandler exchanges operator credentials for admin tokens
type AdminTokenHandler struct {
	service AdminAuthService
}

// NewAdminTokenHandler creates a new AdminTokenHandler
func NewAdminTokenHandler(service AdminAuthService) *AdminTokenHandler {
	return &AdminTokenHandler{service: service}
}

// TokenRequest represents the request body for obtaining an admin token
type TokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRoutes registers the token routes
func (h *AdminTokenHandler) RegisterRoutes(router chi.Router) {
	router.Post("/admin/token", h.IssueToken)
}

// IssueToken verifies operator credentials and returns a bearer token
//
// @Summary Obtain an admin access token
// @Accept json
// @Param request body TokenRequest true "Credentials"
// @Produce json
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/token [post]
func (h *AdminTokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
