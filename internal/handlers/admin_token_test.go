package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arcanehq/realmgate/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newTokenRouter(service *MockAdminAuthService) chi.Router {
	handler := NewAdminTokenHandler(service)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestIssueToken_Success(t *testing.T) {
	service := &MockAdminAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			assert.Equal(t, "ops@example.com", email)
			assert.Equal(t, "CorrectHorse9!", password)
			return "signed-token", nil
		},
	}
	router := newTokenRouter(service)

	req := NewTestRequest(t, http.MethodPost, "/admin/token", TokenRequest{
		Email:    "ops@example.com",
		Password: "CorrectHorse9!",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp TokenResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "signed-token", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
}

func TestIssueToken_NormalizesEmail(t *testing.T) {
	service := &MockAdminAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			assert.Equal(t, "ops@example.com", email)
			return "signed-token", nil
		},
	}
	router := newTokenRouter(service)

	req := NewTestRequest(t, http.MethodPost, "/admin/token", TokenRequest{
		Email:    "  OPS@Example.COM  ",
		Password: "CorrectHorse9!",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIssueToken_InvalidBody(t *testing.T) {
	router := newTokenRouter(&MockAdminAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/admin/token", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestIssueToken_MissingFields(t *testing.T) {
	router := newTokenRouter(&MockAdminAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/admin/token", TokenRequest{Email: "ops@example.com"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestIssueToken_InvalidCredentials(t *testing.T) {
	service := &MockAdminAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			return "", models.ErrUnauthorized
		},
	}
	router := newTokenRouter(service)

	req := NewTestRequest(t, http.MethodPost, "/admin/token", TokenRequest{
		Email:    "ops@example.com",
		Password: "wrong",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")
}

func TestIssueToken_ServiceError(t *testing.T) {
	service := &MockAdminAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			return "", models.ErrInternalServer
		},
	}
	router := newTokenRouter(service)

	req := NewTestRequest(t, http.MethodPost, "/admin/token", TokenRequest{
		Email:    "ops@example.com",
		Password: "CorrectHorse9!",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	AssertErrorResponse(t, w, http.StatusInternalServerError, "internal_error")
}
