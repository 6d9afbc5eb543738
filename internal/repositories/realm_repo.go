package repositories

import (
	"context"

	"github.com/arcanehq/realmgate/internal/database"
	"github.com/arcanehq/realmgate/internal/models"
)

// RealmRepository handles read access to realm configuration.
type RealmRepository struct {
	db *database.DB
}

// NewRealmRepository creates a new RealmRepository
func NewRealmRepository(db *database.DB) *RealmRepository {
	return &RealmRepository{db: db}
}

func (r *RealmRepository) GetByName(ctx context.Context, name string) (*models.Realm, error) {
	query := `
		SELECT id, name, enabled, brute_force_protected, created_at, updated_at
		FROM realms WHERE name = $1
	`

	var realm models.Realm
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&realm.ID, &realm.Name, &realm.Enabled, &realm.BruteForceProtected,
		&realm.CreatedAt, &realm.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &realm, nil
}

func (r *RealmRepository) GetByID(ctx context.Context, id string) (*models.Realm, error) {
	query := `
		SELECT id, name, enabled, brute_force_protected, created_at, updated_at
		FROM realms WHERE id = $1
	`

	var realm models.Realm
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&realm.ID, &realm.Name, &realm.Enabled, &realm.BruteForceProtected,
		&realm.CreatedAt, &realm.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &realm, nil
}
