package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims represents the claims carried by an admin access token.
// Roles name the caller's realm roles; Scopes are the resolved admin
// capabilities used by the permission evaluator.
type TokenClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Realm  string   `json:"realm"`
	Roles  []string `json:"roles"`
	Scopes []string `json:"scopes"`
	Type   string   `json:"type"` // "access"
	jwt.RegisteredClaims
}
