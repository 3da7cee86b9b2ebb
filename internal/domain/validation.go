package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

const maxNameLength = 100

// PasswordPolicy is the configurable credential policy applied before the
// identity provider is ever called. Defaults come from configuration so a
// deployment can track whatever the hosted backend enforces.
type PasswordPolicy struct {
	MinLength      int
	MaxLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// Validate checks a candidate password against the policy.
func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, p.MinLength)
	}
	if p.MaxLength > 0 && len(password) > p.MaxLength {
		return fmt.Errorf("%w: password must be at most %d characters", ErrInvalidInput, p.MaxLength)
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
		default:
			hasSpecial = true
		}
	}
	if p.RequireUpper && !hasUpper {
		return fmt.Errorf("%w: password must contain an uppercase letter", ErrInvalidInput)
	}
	if p.RequireLower && !hasLower {
		return fmt.Errorf("%w: password must contain a lowercase letter", ErrInvalidInput)
	}
	if p.RequireDigit && !hasDigit {
		return fmt.Errorf("%w: password must contain a digit", ErrInvalidInput)
	}
	if p.RequireSpecial && !hasSpecial {
		return fmt.Errorf("%w: password must contain a special character", ErrInvalidInput)
	}
	return nil
}

// NormalizeEmail lowercases and validates an email address.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", fmt.Errorf("%w: email format is invalid", ErrInvalidInput)
	}
	return trimmed, nil
}

// NormalizeName trims a person-name field and rejects empty or oversized
// values. The field label goes into the error message as-is.
func NormalizeName(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, maxNameLength)
	}
	return trimmed, nil
}
