package repositories

import (
	"context"
	"time"

	"github.com/arcanehq/realmgate/internal/database"
	"github.com/arcanehq/realmgate/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AdminAccountRepository handles database operations for admin accounts
type AdminAccountRepository struct {
	db *database.DB
}

// NewAdminAccountRepository creates a new AdminAccountRepository
func NewAdminAccountRepository(db *database.DB) *AdminAccountRepository {
	return &AdminAccountRepository{db: db}
}

func (r *AdminAccountRepository) GetByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	query := `
		SELECT id, email, password_hash, roles, scopes, created_at, updated_at
		FROM admin_accounts WHERE email = $1
	`

	var acct models.AdminAccount
	err := r.db.Pool.QueryRow(ctx, query, email).Scan(
		&acct.ID, &acct.Email, &acct.PasswordHash,
		pq.Array(&acct.Roles), pq.Array(&acct.Scopes),
		&acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &acct, nil
}

func (r *AdminAccountRepository) Create(ctx context.Context, acct *models.AdminAccount) (*models.AdminAccount, error) {
	acct.ID = uuid.New().String()

	now := time.Now()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	query := `
		INSERT INTO admin_accounts (id, email, password_hash, roles, scopes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		acct.ID, acct.Email, acct.PasswordHash,
		pq.Array(acct.Roles), pq.Array(acct.Scopes),
		acct.CreatedAt, acct.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return acct, nil
}
