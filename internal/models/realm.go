package models

import "time"

// DefaultMaxResults caps a user search when the caller does not supply max.
const DefaultMaxResults = 100

// Realm is an isolated identity domain. Brute-force protection is a
// realm-level policy, never a per-user one.
type Realm struct {
	ID                  string
	Name                string
	Enabled             bool
	BruteForceProtected bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
