package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/arcanehq/realmgate/internal/models"
	pkgauth "github.com/arcanehq/realmgate/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAuthService_Login_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("CorrectHorse9!")
	require.NoError(t, err)

	acct := &models.AdminAccount{
		ID:           "admin-1",
		Email:        "ops@example.com",
		PasswordHash: hash,
		Roles:        []string{"realm-admin"},
		Scopes:       []string{models.ScopeAll},
	}

	accounts := &MockAdminAccountRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.AdminAccount, error) {
			return acct, nil
		},
	}
	tokens := &MockTokenIssuer{
		GenerateAccessTokenFunc: func(userID, email, realm string, roles, scopes []string) (string, error) {
			assert.Equal(t, "admin-1", userID)
			assert.Equal(t, []string{models.ScopeAll}, scopes)
			return "signed-token", nil
		},
	}

	svc := NewAdminAuthService(accounts, tokens, slog.Default())

	token, err := svc.Login(context.Background(), "ops@example.com", "CorrectHorse9!")

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", token)
}

func TestAdminAuthService_Login_UnknownAccount(t *testing.T) {
	accounts := &MockAdminAccountRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.AdminAccount, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := NewAdminAuthService(accounts, &MockTokenIssuer{}, slog.Default())

	token, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

	assert.Empty(t, token)
	assert.Equal(t, models.ErrUnauthorized, err)
}

func TestAdminAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("CorrectHorse9!")
	require.NoError(t, err)

	accounts := &MockAdminAccountRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.AdminAccount, error) {
			return &models.AdminAccount{ID: "admin-1", Email: email, PasswordHash: hash}, nil
		},
	}

	svc := NewAdminAuthService(accounts, &MockTokenIssuer{}, slog.Default())

	token, err := svc.Login(context.Background(), "ops@example.com", "wrong")

	assert.Empty(t, token)
	assert.Equal(t, models.ErrUnauthorized, err)
}

func TestAdminAuthService_Login_RepositoryError(t *testing.T) {
	accounts := &MockAdminAccountRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.AdminAccount, error) {
			return nil, models.ErrInternalServer
		},
	}

	svc := NewAdminAuthService(accounts, &MockTokenIssuer{}, slog.Default())

	token, err := svc.Login(context.Background(), "ops@example.com", "whatever")

	assert.Empty(t, token)
	assert.Equal(t, models.ErrInternalServer, err)
}
