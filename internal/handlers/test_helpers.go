package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arcanehq/realmgate/internal/auth"
	"github.com/arcanehq/realmgate/internal/models"
	"github.com/arcanehq/realmgate/internal/permissions"
	"github.com/arcanehq/realmgate/internal/search"
	"github.com/arcanehq/realmgate/internal/services"
	pkghttp "github.com/arcanehq/realmgate/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds admin claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID string, scopes ...string) *http.Request {
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  userID + "@example.com",
		Scopes: scopes,
		Type:   "access",
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockRealmService implements RealmService for testing
type MockRealmService struct {
	GetRealmByNameFunc func(ctx context.Context, name string) (*models.Realm, error)
}

func (m *MockRealmService) GetRealmByName(ctx context.Context, name string) (*models.Realm, error) {
	if m.GetRealmByNameFunc != nil {
		return m.GetRealmByNameFunc(ctx, name)
	}
	return nil, models.ErrNotFound
}

// MockUserSearchService implements UserSearchService for testing
type MockUserSearchService struct {
	SearchFunc func(ctx context.Context, realm *models.Realm, eval permissions.UserEvaluator, criteria search.Criteria, brief bool) ([]*services.DecoratedUser, error)
}

func (m *MockUserSearchService) Search(ctx context.Context, realm *models.Realm, eval permissions.UserEvaluator, criteria search.Criteria, brief bool) ([]*services.DecoratedUser, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, realm, eval, criteria, brief)
	}
	return []*services.DecoratedUser{}, nil
}

// MockEvaluatorFactory implements EvaluatorFactory for testing
type MockEvaluatorFactory struct {
	ForRequestFunc func(ctx context.Context, claims *models.TokenClaims, realm *models.Realm) (permissions.UserEvaluator, error)
}

func (m *MockEvaluatorFactory) ForRequest(ctx context.Context, claims *models.TokenClaims, realm *models.Realm) (permissions.UserEvaluator, error) {
	if m.ForRequestFunc != nil {
		return m.ForRequestFunc(ctx, claims, realm)
	}
	return &stubEvaluator{}, nil
}

// stubEvaluator grants everything unless configured otherwise
type stubEvaluator struct {
	requireQueryErr error
	canViewAll      bool
}

func (s *stubEvaluator) RequireQuery() error { return s.requireQueryErr }

func (s *stubEvaluator) CanViewAll() bool { return s.canViewAll }

func (s *stubEvaluator) GroupsWithViewPermission() []string { return nil }

func (s *stubEvaluator) CanViewUser(user *models.UserRecord, scope permissions.ViewScope) bool {
	return true
}

func (s *stubEvaluator) Access(user *models.UserRecord) map[string]bool {
	return map[string]bool{"view": true, "manage": false}
}

// MockAdminAuthService implements AdminAuthService for testing
type MockAdminAuthService struct {
	LoginFunc func(ctx context.Context, email, password string) (string, error)
}

func (m *MockAdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", models.ErrUnauthorized
}
