package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost     = 14
	MinPasswordLen = 8
	MaxPasswordLen = 128
)

// PasswordValidationError collects every failed rule. The user-facing
// message stays generic so callers cannot enumerate policy details.
type PasswordValidationError struct {
	Errors []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	return "invalid password"
}

var commonPasswords = map[string]bool{
	"password":     true,
	"password123":  true,
	"password123!": true,
	"passw0rd":     true,
	"12345678":     true,
	"123456":       true,
	"123123":       true,
	"qwerty":       true,
	"abc123":       true,
	"admin":        true,
	"letmein":      true,
	"welcome":      true,
	"monkey":       true,
	"dragon":       true,
	"master":       true,
	"shadow":       true,
	"sunshine":     true,
	"princess":     true,
	"starwars":     true,
	"football":     true,
	"trustno1":     true,
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword enforces the admin account password policy: length
// bounds, all four character classes, and a deny list of common picks.
func ValidatePassword(password string) error {
	var failures []string

	if len(password) < MinPasswordLen {
		failures = append(failures, fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		failures = append(failures, fmt.Sprintf("must be at most %d characters", MaxPasswordLen))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		failures = append(failures, "must contain an uppercase letter")
	}
	if !hasLower {
		failures = append(failures, "must contain a lowercase letter")
	}
	if !hasDigit {
		failures = append(failures, "must contain a digit")
	}
	if !hasSpecial {
		failures = append(failures, "must contain a special character")
	}

	if commonPasswords[strings.ToLower(password)] {
		failures = append(failures, "is too common")
	}

	if len(failures) > 0 {
		return &PasswordValidationError{Errors: failures}
	}
	return nil
}
