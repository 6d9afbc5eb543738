package models

import "time"

// AdminAccount is a console operator able to obtain admin access tokens.
// Roles feed the realm group-view grants; Scopes are the capabilities
// minted into the token.
type AdminAccount struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	Scopes       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
