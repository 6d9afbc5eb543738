package services

import (
	"context"
	"time"

	"github.com/arcanehq/realmgate/internal/models"
	"github.com/arcanehq/realmgate/internal/permissions"
	"github.com/arcanehq/realmgate/internal/search"
)

// MockUserDirectory implements UserDirectory for testing
type MockUserDirectory struct {
	GetByIDFunc func(ctx context.Context, realmID, id string) (*models.UserRecord, error)
	SearchFunc  func(ctx context.Context, realmID string, criteria search.Criteria) ([]*models.UserRecord, error)
}

func (m *MockUserDirectory) GetByID(ctx context.Context, realmID, id string) (*models.UserRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, realmID, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserDirectory) Search(ctx context.Context, realmID string, criteria search.Criteria) ([]*models.UserRecord, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, realmID, criteria)
	}
	return []*models.UserRecord{}, nil
}

// MockLoginFailureStore implements LoginFailureStore for testing
type MockLoginFailureStore struct {
	GetUserLoginFailureFunc func(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error)
}

func (m *MockLoginFailureStore) GetUserLoginFailure(ctx context.Context, realmID, userID string) (*models.LoginFailureRecord, error) {
	if m.GetUserLoginFailureFunc != nil {
		return m.GetUserLoginFailureFunc(ctx, realmID, userID)
	}
	return nil, models.ErrNotFound
}

// MockRealmRepository implements RealmRepository for testing
type MockRealmRepository struct {
	GetByNameFunc func(ctx context.Context, name string) (*models.Realm, error)
	GetByIDFunc   func(ctx context.Context, id string) (*models.Realm, error)
}

func (m *MockRealmRepository) GetByName(ctx context.Context, name string) (*models.Realm, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, models.ErrNotFound
}

func (m *MockRealmRepository) GetByID(ctx context.Context, id string) (*models.Realm, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockAdminAccountRepository implements AdminAccountRepository for testing
type MockAdminAccountRepository struct {
	GetByEmailFunc func(ctx context.Context, email string) (*models.AdminAccount, error)
	CreateFunc     func(ctx context.Context, acct *models.AdminAccount) (*models.AdminAccount, error)
}

func (m *MockAdminAccountRepository) GetByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminAccountRepository) Create(ctx context.Context, acct *models.AdminAccount) (*models.AdminAccount, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, acct)
	}
	return nil, models.ErrInternalServer
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	GenerateAccessTokenFunc func(userID, email, realm string, roles, scopes []string) (string, error)
}

func (m *MockTokenIssuer) GenerateAccessToken(userID, email, realm string, roles, scopes []string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, email, realm, roles, scopes)
	}
	return "test-token", nil
}

// MockEvaluator implements permissions.UserEvaluator for testing
type MockEvaluator struct {
	RequireQueryFunc             func() error
	CanViewAllFunc               func() bool
	GroupsWithViewPermissionFunc func() []string
	CanViewUserFunc              func(user *models.UserRecord, scope permissions.ViewScope) bool
	AccessFunc                   func(user *models.UserRecord) map[string]bool
}

func (m *MockEvaluator) RequireQuery() error {
	if m.RequireQueryFunc != nil {
		return m.RequireQueryFunc()
	}
	return nil
}

func (m *MockEvaluator) CanViewAll() bool {
	if m.CanViewAllFunc != nil {
		return m.CanViewAllFunc()
	}
	return true
}

func (m *MockEvaluator) GroupsWithViewPermission() []string {
	if m.GroupsWithViewPermissionFunc != nil {
		return m.GroupsWithViewPermissionFunc()
	}
	return nil
}

func (m *MockEvaluator) CanViewUser(user *models.UserRecord, scope permissions.ViewScope) bool {
	if m.CanViewUserFunc != nil {
		return m.CanViewUserFunc(user, scope)
	}
	return true
}

func (m *MockEvaluator) Access(user *models.UserRecord) map[string]bool {
	if m.AccessFunc != nil {
		return m.AccessFunc(user)
	}
	return map[string]bool{"view": true, "manage": false}
}

// FixedClock returns the same instant on every read
type FixedClock struct {
	Now int64
}

func (c FixedClock) NowUnix() int64 {
	return c.Now
}

// NewTestRealm builds an enabled realm for tests
func NewTestRealm(id, name string, protected bool) *models.Realm {
	return &models.Realm{
		ID:                  id,
		Name:                name,
		Enabled:             true,
		BruteForceProtected: protected,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

// NewTestUserRecord builds a directory user for tests
func NewTestUserRecord(id, username string, groups ...string) *models.UserRecord {
	return &models.UserRecord{
		ID:        id,
		RealmID:   "realm-1",
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Enabled:   true,
		GroupIDs:  groups,
		CreatedAt: time.Unix(1700000000, 0),
		UpdatedAt: time.Unix(1700000000, 0),
	}
}
