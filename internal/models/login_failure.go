package models

// LastIPFailureNone is reported when no failing IP has been recorded.
const LastIPFailureNone = "n/a"

// LoginFailureRecord tracks accumulated failed logins for one user in one
// realm. It is created and incremented by the authentication pipeline;
// this subsystem only reads it. A user who has never failed a login has no
// record at all, which is distinct from a record with zero failures.
type LoginFailureRecord struct {
	RealmID              string
	UserID               string
	NumFailures          int
	LastFailure          int64  // unix seconds, 0 if never
	LastIPFailure        string // "n/a" if absent
	FailedLoginNotBefore int64  // unix seconds marking the end of the lockout window, 0 if none
}

// BruteForceStatus is the point-in-time lockout view of a single user.
// It is derived on every request and never persisted.
type BruteForceStatus struct {
	Disabled      bool   `json:"disabled"`
	NumFailures   int    `json:"numFailures"`
	LastFailure   int64  `json:"lastFailure"`
	LastIPFailure string `json:"lastIPFailure"`
}

// DefaultBruteForceStatus is the all-clear status reported when protection
// is off for the realm or the user has no failure record.
func DefaultBruteForceStatus() BruteForceStatus {
	return BruteForceStatus{
		Disabled:      false,
		NumFailures:   0,
		LastFailure:   0,
		LastIPFailure: LastIPFailureNone,
	}
}
