package permissions

import (
	"context"
	"log/slog"

	"github.com/arcanehq/realmgate/internal/models"
)

// GroupGrantRepository loads the group-view grants configured for a set of
// realm roles.
type GroupGrantRepository interface {
	GroupsViewableByRoles(ctx context.Context, realmID string, roles []string) ([]string, error)
}

// RoleEvaluator answers capability questions from the caller's token
// scopes plus the realm's configured group-view grants. Grants are loaded
// once at construction so every check during one request sees the same
// snapshot.
type RoleEvaluator struct {
	claims *models.TokenClaims
	groups []string
	logger *slog.Logger
}

// NewRoleEvaluator builds an evaluator for one request. The group grants
// for the caller's roles are resolved eagerly.
func NewRoleEvaluator(ctx context.Context, claims *models.TokenClaims, realm *models.Realm, grants GroupGrantRepository, logger *slog.Logger) (*RoleEvaluator, error) {
	groups, err := grants.GroupsViewableByRoles(ctx, realm.ID, claims.Roles)
	if err != nil {
		return nil, err
	}
	return &RoleEvaluator{
		claims: claims,
		groups: groups,
		logger: logger,
	}, nil
}

func (e *RoleEvaluator) RequireQuery() error {
	if models.HasScope(e.claims.Scopes, models.ScopeUsersQuery) {
		return nil
	}
	e.logger.Info("query capability denied",
		slog.String("caller_id", e.claims.UserID),
	)
	return models.ErrForbidden
}

func (e *RoleEvaluator) CanViewAll() bool {
	return models.HasScope(e.claims.Scopes, models.ScopeUsersView)
}

func (e *RoleEvaluator) GroupsWithViewPermission() []string {
	return e.groups
}

func (e *RoleEvaluator) CanViewUser(user *models.UserRecord, scope ViewScope) bool {
	if len(scope.GroupIDs) > 0 {
		for _, g := range scope.GroupIDs {
			if user.InGroup(g) {
				return true
			}
		}
		return false
	}
	if scope.GrantUnrestricted {
		// Default to visible when no narrower rule applies, but only for
		// users outside any group context.
		return len(user.GroupIDs) == 0
	}
	return false
}

func (e *RoleEvaluator) Access(user *models.UserRecord) map[string]bool {
	canView := e.CanViewAll()
	if !canView {
		_, scope := ScopeFor(e)
		canView = e.CanViewUser(user, scope)
	}
	return map[string]bool{
		"view":   canView,
		"manage": models.HasScope(e.claims.Scopes, models.ScopeUsersManage),
	}
}
