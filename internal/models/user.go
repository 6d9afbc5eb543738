package models

import "time"

// UserRecord is an identity record owned by the user directory. This
// subsystem only reads it; all mutation happens on external write paths.
type UserRecord struct {
	ID             string
	RealmID        string
	Username       string
	Email          string
	FirstName      string
	LastName       string
	Enabled        bool
	EmailVerified  bool
	ServiceAccount bool
	Attributes     map[string]string // phoneNumber, phoneNumberLocale, idpAlias, ...
	GroupIDs       []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InGroup reports whether the user is a member of the given group.
func (u *UserRecord) InGroup(groupID string) bool {
	for _, g := range u.GroupIDs {
		if g == groupID {
			return true
		}
	}
	return false
}

// Attribute returns the named extended attribute, or "" when unset.
func (u *UserRecord) Attribute(name string) string {
	if u.Attributes == nil {
		return ""
	}
	return u.Attributes[name]
}
