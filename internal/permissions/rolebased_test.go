package permissions

import (
	"context"
	"log/slog"
	"testing"

	"github.com/arcanehq/realmgate/internal/models"
	"github.com/stretchr/testify/assert"
)

// MockGroupGrantRepository implements GroupGrantRepository for testing
type MockGroupGrantRepository struct {
	GroupsViewableByRolesFunc func(ctx context.Context, realmID string, roles []string) ([]string, error)
}

func (m *MockGroupGrantRepository) GroupsViewableByRoles(ctx context.Context, realmID string, roles []string) ([]string, error) {
	if m.GroupsViewableByRolesFunc != nil {
		return m.GroupsViewableByRolesFunc(ctx, realmID, roles)
	}
	return nil, nil
}

func testRealm() *models.Realm {
	return &models.Realm{ID: "realm-1", Name: "acme", Enabled: true}
}

func newEvaluator(t *testing.T, scopes []string, groups []string) *RoleEvaluator {
	t.Helper()

	claims := &models.TokenClaims{
		UserID: "admin-1",
		Roles:  []string{"auditor"},
		Scopes: scopes,
	}
	grants := &MockGroupGrantRepository{
		GroupsViewableByRolesFunc: func(ctx context.Context, realmID string, roles []string) ([]string, error) {
			return groups, nil
		},
	}

	eval, err := NewRoleEvaluator(context.Background(), claims, testRealm(), grants, slog.Default())
	assert.NoError(t, err)
	return eval
}

func TestRoleEvaluator_RequireQuery(t *testing.T) {
	eval := newEvaluator(t, []string{models.ScopeUsersQuery}, nil)
	assert.NoError(t, eval.RequireQuery())

	eval = newEvaluator(t, []string{models.ScopeUsersView}, nil)
	assert.Equal(t, models.ErrForbidden, eval.RequireQuery())

	eval = newEvaluator(t, []string{models.ScopeAll}, nil)
	assert.NoError(t, eval.RequireQuery())
}

func TestRoleEvaluator_CanViewAll(t *testing.T) {
	assert.True(t, newEvaluator(t, []string{models.ScopeUsersView}, nil).CanViewAll())
	assert.False(t, newEvaluator(t, []string{models.ScopeUsersQuery}, nil).CanViewAll())
}

func TestRoleEvaluator_GrantsLoadedOnce(t *testing.T) {
	calls := 0
	grants := &MockGroupGrantRepository{
		GroupsViewableByRolesFunc: func(ctx context.Context, realmID string, roles []string) ([]string, error) {
			calls++
			return []string{"group-a"}, nil
		},
	}
	claims := &models.TokenClaims{UserID: "admin-1", Roles: []string{"auditor"}}

	eval, err := NewRoleEvaluator(context.Background(), claims, testRealm(), grants, slog.Default())
	assert.NoError(t, err)

	eval.GroupsWithViewPermission()
	eval.GroupsWithViewPermission()
	assert.Equal(t, 1, calls)
}

func TestRoleEvaluator_GrantLoadFailure(t *testing.T) {
	grants := &MockGroupGrantRepository{
		GroupsViewableByRolesFunc: func(ctx context.Context, realmID string, roles []string) ([]string, error) {
			return nil, models.ErrInternalServer
		},
	}
	claims := &models.TokenClaims{UserID: "admin-1"}

	eval, err := NewRoleEvaluator(context.Background(), claims, testRealm(), grants, slog.Default())
	assert.Error(t, err)
	assert.Nil(t, eval)
}

func TestRoleEvaluator_CanViewUser_GroupScoped(t *testing.T) {
	eval := newEvaluator(t, nil, []string{"group-a"})
	scope := ViewScope{GroupIDs: []string{"group-a"}}

	member := &models.UserRecord{ID: "u1", GroupIDs: []string{"group-a", "group-z"}}
	outsider := &models.UserRecord{ID: "u2", GroupIDs: []string{"group-b"}}
	groupless := &models.UserRecord{ID: "u3"}

	assert.True(t, eval.CanViewUser(member, scope))
	assert.False(t, eval.CanViewUser(outsider, scope))
	assert.False(t, eval.CanViewUser(groupless, scope))
}

func TestRoleEvaluator_CanViewUser_UnrestrictedFallback(t *testing.T) {
	eval := newEvaluator(t, nil, nil)
	scope := ViewScope{GrantUnrestricted: true}

	groupless := &models.UserRecord{ID: "u1"}
	grouped := &models.UserRecord{ID: "u2", GroupIDs: []string{"group-a"}}

	assert.True(t, eval.CanViewUser(groupless, scope))
	assert.False(t, eval.CanViewUser(grouped, scope))
}

func TestRoleEvaluator_CanViewUser_NoScopeNoFallback(t *testing.T) {
	eval := newEvaluator(t, nil, nil)
	scope := ViewScope{}

	assert.False(t, eval.CanViewUser(&models.UserRecord{ID: "u1"}, scope))
}

func TestRoleEvaluator_Access(t *testing.T) {
	eval := newEvaluator(t, []string{models.ScopeUsersView, models.ScopeUsersManage}, nil)
	access := eval.Access(&models.UserRecord{ID: "u1"})
	assert.Equal(t, map[string]bool{"view": true, "manage": true}, access)

	eval = newEvaluator(t, []string{models.ScopeUsersQuery}, nil)
	access = eval.Access(&models.UserRecord{ID: "u1", GroupIDs: []string{"group-a"}})
	assert.Equal(t, map[string]bool{"view": false, "manage": false}, access)
}

func TestScopeFor_GlobalView(t *testing.T) {
	eval := newEvaluator(t, []string{models.ScopeUsersView}, []string{"group-a"})

	canViewAll, scope := ScopeFor(eval)

	assert.True(t, canViewAll)
	assert.Empty(t, scope.GroupIDs)
	assert.False(t, scope.GrantUnrestricted)
}

func TestScopeFor_GroupScoped(t *testing.T) {
	eval := newEvaluator(t, nil, []string{"group-a", "group-b"})

	canViewAll, scope := ScopeFor(eval)

	assert.False(t, canViewAll)
	assert.Equal(t, []string{"group-a", "group-b"}, scope.GroupIDs)
	assert.False(t, scope.GrantUnrestricted)
}

func TestScopeFor_NoGrantsFallsBackUnrestricted(t *testing.T) {
	eval := newEvaluator(t, nil, nil)

	canViewAll, scope := ScopeFor(eval)

	assert.False(t, canViewAll)
	assert.Empty(t, scope.GroupIDs)
	assert.True(t, scope.GrantUnrestricted)
}
