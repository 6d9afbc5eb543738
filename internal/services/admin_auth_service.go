package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arcanehq/realmgate/internal/models"
	pkgauth "github.com/arcanehq/realmgate/pkg/auth"
	pkglogger "github.com/arcanehq/realmgate/pkg/logger"
)

// AdminAccountRepository defines the interface for admin account data access
type AdminAccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminAccount, error)
	Create(ctx context.Context, acct *models.AdminAccount) (*models.AdminAccount, error)
}

// TokenIssuer mints signed admin access tokens
type TokenIssuer interface {
	GenerateAccessToken(userID, email, realm string, roles, scopes []string) (string, error)
}

// AdminAuthService exchanges admin credentials for access tokens
type AdminAuthService struct {
	accounts AdminAccountRepository
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewAdminAuthService creates a new AdminAuthService
func NewAdminAuthService(accounts AdminAccountRepository, tokens TokenIssuer, logger *slog.Logger) *AdminAuthService {
	return &AdminAuthService{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies credentials and returns a signed access token. Wrong
// email and wrong password are indistinguishable to the caller.
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed, unknown account",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return "", models.ErrUnauthorized
		}
		s.logger.Error("failed to load admin account", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(acct.PasswordHash, password); err != nil {
		s.logger.Info("login failed, bad password",
			slog.String("email", pkglogger.SanitizedEmail(email)))
		return "", models.ErrUnauthorized
	}

	token, err := s.tokens.GenerateAccessToken(acct.ID, acct.Email, "", acct.Roles, acct.Scopes)
	if err != nil {
		s.logger.Error("failed to issue token", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	return token, nil
}
