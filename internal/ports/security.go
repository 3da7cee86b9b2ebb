package ports

import "time"

// HandoffClaims is the payload of the token minted when a signup completes.
// The downstream onboarding step consumes it to identify the new account
// without a fresh login.
type HandoffClaims struct {
	AccountID string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	KeyID     string
}

// HandoffSigner mints and validates hand-off tokens.
type HandoffSigner interface {
	Sign(claims HandoffClaims) (string, error)
	ParseAndValidate(token string) (HandoffClaims, error)
}

// PasswordHasher hashes credentials for the local identity provider.
// Verification lives with whoever consumes the hash at login time; this
// service only ever writes credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
