package models

// Scope constants define all valid admin scopes in the system
const (
	// User scopes
	ScopeUsersQuery  = "users.query"
	ScopeUsersView   = "users.view"
	ScopeUsersManage = "users.manage"

	// Group scopes
	ScopeGroupsView = "groups.view"

	// Realm scopes
	ScopeRealmView = "realm.view"

	// Wildcard scope - grants all permissions (realm admin only)
	ScopeAll = "*"
)

// AllValidScopes is the whitelist of all allowed scopes
var AllValidScopes = map[string]bool{
	ScopeUsersQuery:  true,
	ScopeUsersView:   true,
	ScopeUsersManage: true,
	ScopeGroupsView:  true,
	ScopeRealmView:   true,
	ScopeAll:         true,
}

// IsValidScope checks if a scope exists in the whitelist
func IsValidScope(scope string) bool {
	return AllValidScopes[scope]
}

// HasScope checks if a scopes array contains a required scope
// Handles wildcard "*" for realm-admin access
func HasScope(scopes []string, required string) bool {
	for _, scope := range scopes {
		// Wildcard grants all scopes
		if scope == ScopeAll {
			return true
		}
		if scope == required {
			return true
		}
	}
	return false
}
