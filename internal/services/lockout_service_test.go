package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/arcanehq/realmgate/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLockoutService_Resolve_ProtectionDisabled(t *testing.T) {
	realm := NewTestRealm("realm-1", "acme", false)

	store := &MockLoginFailureStore{
		GetUserLoginFailureFunc: func(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
			t.Fatal("failure store must not be consulted when protection is off")
			return nil, nil
		},
	}

	svc := NewLockoutService(store, FixedClock{Now: 2000}, slog.Default())

	status, err := svc.Resolve(context.Background(), realm, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, models.DefaultBruteForceStatus(), status)
}

func TestLockoutService_Resolve_NoRecord(t *testing.T) {
	realm := NewTestRealm("realm-1", "acme", true)

	store := &MockLoginFailureStore{
		GetUserLoginFailureFunc: func(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := NewLockoutService(store, FixedClock{Now: 2000}, slog.Default())

	status, err := svc.Resolve(context.Background(), realm, "user-1")

	assert.NoError(t, err)
	assert.False(t, status.Disabled)
	assert.Equal(t, 0, status.NumFailures)
	assert.Equal(t, int64(0), status.LastFailure)
	assert.Equal(t, models.LastIPFailureNone, status.LastIPFailure)
}

func TestLockoutService_Resolve_WindowOpen(t *testing.T) {
	realm := NewTestRealm("realm-1", "acme", true)

	store := &MockLoginFailureStore{
		GetUserLoginFailureFunc: func(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
			return &models.LoginFailureRecord{
				RealmID:              realmID,
				UserID:               userID,
				NumFailures:          5,
				LastFailure:          1400,
				LastIPFailure:        "10.0.0.9",
				FailedLoginNotBefore: 2000,
			}, nil
		},
	}

	svc := NewLockoutService(store, FixedClock{Now: 1500}, slog.Default())

	status, err := svc.Resolve(context.Background(), realm, "user-1")

	assert.NoError(t, err)
	assert.True(t, status.Disabled)
	assert.Equal(t, 5, status.NumFailures)
	assert.Equal(t, int64(1400), status.LastFailure)
	assert.Equal(t, "10.0.0.9", status.LastIPFailure)
}

func TestLockoutService_Resolve_WindowExpired(t *testing.T) {
	realm := NewTestRealm("realm-1", "acme", true)

	store := &MockLoginFailureStore{
		GetUserLoginFailureFunc: func(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
			return &models.LoginFailureRecord{
				RealmID:              realmID,
				UserID:               userID,
				NumFailures:          5,
				LastFailure:          1400,
				LastIPFailure:        "10.0.0.9",
				FailedLoginNotBefore: 2000,
			}, nil
		},
	}

	svc := NewLockoutService(store, FixedClock{Now: 2500}, slog.Default())

	status, err := svc.Resolve(context.Background(), realm, "user-1")

	assert.NoError(t, err)
	assert.False(t, status.Disabled)
	assert.Equal(t, 5, status.NumFailures)
	assert.Equal(t, int64(1400), status.LastFailure)
	assert.Equal(t, "10.0.0.9", status.LastIPFailure)
}

func TestLockoutService_Resolve_BoundaryInstant(t *testing.T) {
	realm := NewTestRealm("realm-1", "acme", true)

	store := &MockLoginFailureStore{
		GetUserLoginFailureFunc: func(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
			return &models.LoginFailureRecord{
				NumFailures:          3,
				LastFailure:          1900,
				LastIPFailure:        "10.0.0.9",
				FailedLoginNotBefore: 2000,
			}, nil
		},
	}

	// At the exact boundary second the window has expired.
	svc := NewLockoutService(store, FixedClock{Now: 2000}, slog.Default())
	status, err := svc.Resolve(context.Background(), realm, "user-1")
	assert.NoError(t, err)
	assert.False(t, status.Disabled)

	// One second earlier it is still open.
	svc = NewLockoutService(store, FixedClock{Now: 1999}, slog.Default())
	status, err = svc.Resolve(context.Background(), realm, "user-1")
	assert.NoError(t, err)
	assert.True(t, status.Disabled)
}

func TestLockoutService_Resolve_ZeroFailureRecord(t *testing.T) {
	realm := NewTestRealm("realm-1", "acme", true)

	store := &MockLoginFailureStore{
		GetUserLoginFailureFunc: func(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
			return &models.LoginFailureRecord{
				NumFailures:          0,
				LastFailure:          0,
				LastIPFailure:        models.LastIPFailureNone,
				FailedLoginNotBefore: 0,
			}, nil
		},
	}

	svc := NewLockoutService(store, FixedClock{Now: 2000}, slog.Default())

	status, err := svc.Resolve(context.Background(), realm, "user-1")

	assert.NoError(t, err)
	assert.False(t, status.Disabled)
	assert.Equal(t, 0, status.NumFailures)
}

func TestLockoutService_Resolve_StoreError(t *testing.T) {
	realm := NewTestRealm("realm-1", "acme", true)

	store := &MockLoginFailureStore{
		GetUserLoginFailureFunc: func(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
			return nil, models.ErrInternalServer
		},
	}

	svc := NewLockoutService(store, FixedClock{Now: 2000}, slog.Default())

	_, err := svc.Resolve(context.Background(), realm, "user-1")

	assert.Error(t, err)
	assert.Equal(t, models.ErrInternalServer, err)
}
