package repositories

import (
	"context"

	"github.com/arcanehq/realmgate/internal/database"
	"github.com/arcanehq/realmgate/internal/models"
)

// LoginFailureRepository reads per-user login failure records. The records
// are written by the authentication pipeline; this subsystem never mutates
// them on the request path.
type LoginFailureRepository struct {
	db *database.DB
}

// NewLoginFailureRepository creates a new LoginFailureRepository
func NewLoginFailureRepository(db *database.DB) *LoginFailureRepository {
	return &LoginFailureRepository{db: db}
}

// GetUserLoginFailure returns the failure record for one user, or
// models.ErrNotFound when the user has never failed a login.
func (r *LoginFailureRepository) GetUserLoginFailure(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
	query := `
		SELECT realm_id, user_id, num_failures, last_failure, last_ip_failure, failed_login_not_before
		FROM login_failures WHERE realm_id = $1 AND user_id = $2
	`

	var rec models.LoginFailureRecord
	err := r.db.Pool.QueryRow(ctx, query, realmID, userID).Scan(
		&rec.RealmID, &rec.UserID, &rec.NumFailures,
		&rec.LastFailure, &rec.LastIPFailure, &rec.FailedLoginNotBefore,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &rec, nil
}

// DeleteExpiredBefore prunes failure records whose lockout window ended
// before the cutoff and that have seen no failure since. Used by the
// background retention sweep only.
func (r *LoginFailureRepository) DeleteExpiredBefore(ctx context.Context, cutoff int64) (int64, error) {
	query := `
		DELETE FROM login_failures
		WHERE failed_login_not_before < $1 AND last_failure < $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
