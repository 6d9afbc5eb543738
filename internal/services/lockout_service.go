package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arcanehq/realmgate/internal/models"
)

// LoginFailureStore is the read-side of the login failure records.
type LoginFailureStore interface {
	GetUserLoginFailure(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error)
}

// LockoutService computes point-in-time brute-force lockout status. It is
// a pure read: nothing here mutates the failure store, and nothing is
// cached between requests.
type LockoutService struct {
	failures LoginFailureStore
	clock    Clock
	logger   *slog.Logger
}

// NewLockoutService creates a new LockoutService
func NewLockoutService(failures LoginFailureStore, clock Clock, logger *slog.Logger) *LockoutService {
	return &LockoutService{
		failures: failures,
		clock:    clock,
		logger:   logger,
	}
}

// Resolve computes the lockout status of one user. When the realm has
// brute-force protection disabled, or the user has no failure record, the
// fixed all-clear default is returned. Otherwise the record's counters are
// reported verbatim and Disabled reflects whether the lockout window is
// still open: strictly current time before FailedLoginNotBefore, so at the
// exact boundary second the lockout has expired and access is permitted.
func (s *LockoutService) Resolve(ctx context.Context, realm *models.Realm, userID string) (models.BruteForceStatus, error) {
	status := models.DefaultBruteForceStatus()

	if !realm.BruteForceProtected {
		return status, nil
	}

	rec, err := s.failures.GetUserLoginFailure(ctx, realm.ID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return status, nil
		}
		return status, err
	}

	now := s.clock.NowUnix()
	if now < rec.FailedLoginNotBefore {
		s.logger.Debug("user temporarily locked",
			slog.String("user_id", userID),
			slog.Int64("now", now),
			slog.Int64("not_before", rec.FailedLoginNotBefore),
		)
		status.Disabled = true
	}

	// Counters are reported as recorded, independent of the Disabled
	// outcome. A record can legitimately carry zero failures.
	status.NumFailures = rec.NumFailures
	status.LastFailure = rec.LastFailure
	status.LastIPFailure = rec.LastIPFailure

	return status, nil
}
