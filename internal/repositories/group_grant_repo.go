package repositories

import (
	"context"
	"fmt"

	"github.com/arcanehq/realmgate/internal/database"
)

// GroupGrantRepository reads the group-view grants configured per realm
// role. A grant (role, group) lets callers holding the role view members
// of the group.
type GroupGrantRepository struct {
	db *database.DB
}

// NewGroupGrantRepository creates a new GroupGrantRepository
func NewGroupGrantRepository(db *database.DB) *GroupGrantRepository {
	return &GroupGrantRepository{db: db}
}

// GroupsViewableByRoles returns the distinct groups viewable by any of the
// given roles. An empty result means the caller has no group-scoped grants.
func (r *GroupGrantRepository) GroupsViewableByRoles(ctx context.Context, realmID string, roles []string) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT group_id FROM group_view_grants
		WHERE realm_id = $1 AND role = ANY($2)
	`

	rows, err := r.db.Pool.Query(ctx, query, realmID, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to query group grants: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("failed to scan group grant: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return groups, nil
}
