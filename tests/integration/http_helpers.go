package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arcanehq/realmgate/internal/auth"
	"github.com/arcanehq/realmgate/internal/handlers"
	"github.com/arcanehq/realmgate/internal/permissions"
	"github.com/arcanehq/realmgate/internal/repositories"
	"github.com/arcanehq/realmgate/internal/routes"
	"github.com/arcanehq/realmgate/internal/services"
	pkglogger "github.com/arcanehq/realmgate/pkg/logger"
)

const testJWTSecret = "integration-test-secret-32-chars!!"

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server       *httptest.Server
	DB           *TestDB
	TokenManager *auth.TokenManager
	logger       *slog.Logger
}

// NewTestServer initializes a complete HTTP server against a real database
func NewTestServer(testDB *TestDB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	realmRepo, directoryRepo, failureRepo, grantRepo := InitializeRepositories(testDB.DB)
	accountRepo := repositories.NewAdminAccountRepository(testDB.DB)

	tokenManager := auth.NewTokenManager(testJWTSecret, 15*time.Minute)

	auditLogger := pkglogger.NewAuditLogger(logger)
	realmService := services.NewRealmService(realmRepo, logger)
	lockoutService := services.NewLockoutService(failureRepo, services.SystemClock{}, logger)
	searchService := services.NewSearchService(directoryRepo, lockoutService, logger)
	evaluatorFactory := permissions.NewFactory(grantRepo, logger)
	adminAuthService := services.NewAdminAuthService(accountRepo, tokenManager, logger)

	bruteForceUsersHandler := handlers.NewBruteForceUsersHandler(realmService, searchService, evaluatorFactory, auditLogger)
	adminTokenHandler := handlers.NewAdminTokenHandler(adminAuthService)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(router, bruteForceUsersHandler, adminTokenHandler, tokenManager)

	return &TestServer{
		Server:       httptest.NewServer(router),
		DB:           testDB,
		TokenManager: tokenManager,
		logger:       logger,
	}
}

// Close shuts down the HTTP server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// AdminToken mints a token carrying the given roles and scopes
func (ts *TestServer) AdminToken(userID string, roles, scopes []string) (string, error) {
	return ts.TokenManager.GenerateAccessToken(userID, userID+"@example.com", "", roles, scopes)
}

// GetJSON performs an authenticated GET and decodes the JSON response
func (ts *TestServer) GetJSON(path, token string, target interface{}) (int, error) {
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	if err != nil {
		return 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if target != nil && resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(body, target); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response %q: %w", body, err)
		}
	}

	return resp.StatusCode, nil
}
