package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arcanehq/realmgate/internal/auth"
	"github.com/arcanehq/realmgate/internal/background"
	"github.com/arcanehq/realmgate/internal/config"
	"github.com/arcanehq/realmgate/internal/database"
	"github.com/arcanehq/realmgate/internal/handlers"
	middlewareCustom "github.com/arcanehq/realmgate/internal/middleware"
	"github.com/arcanehq/realmgate/internal/models"
	"github.com/arcanehq/realmgate/internal/permissions"
	"github.com/arcanehq/realmgate/internal/repositories"
	"github.com/arcanehq/realmgate/internal/routes"
	"github.com/arcanehq/realmgate/internal/services"
	pkgauth "github.com/arcanehq/realmgate/pkg/auth"
	pkglogger "github.com/arcanehq/realmgate/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	realmRepo := repositories.NewRealmRepository(db)
	directoryRepo := repositories.NewUserDirectoryRepository(db)
	failureRepo := repositories.NewLoginFailureRepository(db)
	grantRepo := repositories.NewGroupGrantRepository(db)
	accountRepo := repositories.NewAdminAccountRepository(db)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	// Initialize services
	auditLogger := pkglogger.NewAuditLogger(logger)
	realmService := services.NewRealmService(realmRepo, logger)
	lockoutService := services.NewLockoutService(failureRepo, services.SystemClock{}, logger)
	searchService := services.NewSearchService(directoryRepo, lockoutService, logger)
	evaluatorFactory := permissions.NewFactory(grantRepo, logger)
	adminAuthService := services.NewAdminAuthService(accountRepo, tokenManager, logger)

	// Initialize handlers
	bruteForceUsersHandler := handlers.NewBruteForceUsersHandler(realmService, searchService, evaluatorFactory, auditLogger)
	adminTokenHandler := handlers.NewAdminTokenHandler(adminAuthService)

	// Bootstrap first admin account if configured
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminAccount(bootCtx, accountRepo, logger); err != nil {
		logger.Error("failed to ensure admin account", slog.Any("error", err))
	}
	bootCancel()

	// Background retention sweep for stale login failure records
	sweeper := background.NewRetentionSweeper(failureRepo, logger, cfg.Retention.SweepInterval, cfg.Retention.KeepFor)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, bruteForceUsersHandler, adminTokenHandler, tokenManager)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start retention sweep
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	go sweeper.Start(sweepCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	sweepCancel()
	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureAdminAccount creates the first admin account if ADMIN_EMAIL and ADMIN_PASSWORD are set
func ensureAdminAccount(ctx context.Context, accountRepo *repositories.AdminAccountRepository, logger *slog.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin account creation")
		return nil
	}

	// Check if admin already exists
	_, err := accountRepo.GetByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("admin account already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	if err := pkgauth.ValidatePassword(adminPassword); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD does not meet the password policy: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.AdminAccount{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Roles:        []string{"realm-admin"},
		Scopes:       []string{models.ScopeAll},
	}

	if _, err := accountRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.Info("admin account created successfully")
	return nil
}
