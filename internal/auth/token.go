package auth

import (
	"fmt"
	"time"

	"github.com/arcanehq/realmgate/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager handles admin JWT token generation and validation
type TokenManager struct {
	secret            string
	accessTokenExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, accessExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:            secret,
		accessTokenExpiry: accessExpiry,
	}
}

// GenerateAccessToken creates a short-lived admin access token carrying
// the caller's realm roles and resolved scopes.
func (tm *TokenManager) GenerateAccessToken(userID, email, realm string, roles, scopes []string) (string, error) {
	now := time.Now()

	claims := &models.TokenClaims{
		Type:   "access",
		UserID: userID,
		Email:  email,
		Realm:  realm,
		Roles:  roles,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates an admin token string
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(tm.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
