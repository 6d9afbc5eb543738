// Package permissions answers "may this caller view/query this resource"
// questions for admin requests against a realm.
package permissions

import "github.com/arcanehq/realmgate/internal/models"

// ViewScope is the group restriction established once per request, before
// any result iteration, and threaded explicitly through per-user checks.
type ViewScope struct {
	// GroupIDs restricts visibility to members of these groups. Empty
	// means no group restriction was established.
	GroupIDs []string

	// GrantUnrestricted is the fallback applied when the caller holds no
	// explicit grant at all (neither global nor group-scoped): users
	// outside any group become visible. Omitting this silently hides all
	// users for callers configured without explicit rules.
	GrantUnrestricted bool
}

// UserEvaluator is the capability interface consumed by the search core.
// Implementations own the rule engine; the core only asks questions.
type UserEvaluator interface {
	// RequireQuery rejects callers lacking the baseline capability to run
	// user queries at all. Returns models.ErrForbidden on denial.
	RequireQuery() error

	// CanViewAll reports whether the caller may view every user in the
	// realm.
	CanViewAll() bool

	// GroupsWithViewPermission returns the groups the caller may view
	// members of. Empty when the caller has no group-scoped grants.
	GroupsWithViewPermission() []string

	// CanViewUser decides per-user visibility under an established scope.
	CanViewUser(user *models.UserRecord, scope ViewScope) bool

	// Access summarizes the caller's capabilities on one user, attached
	// to every returned representation.
	Access(user *models.UserRecord) map[string]bool
}

// ScopeFor establishes the view scope for one request. It must run before
// the result sequence is iterated so the fallback decision is made from
// the caller's full grant picture, not per user.
func ScopeFor(eval UserEvaluator) (canViewAll bool, scope ViewScope) {
	if eval.CanViewAll() {
		return true, ViewScope{}
	}
	groups := eval.GroupsWithViewPermission()
	return false, ViewScope{
		GroupIDs:          groups,
		GrantUnrestricted: len(groups) == 0,
	}
}
