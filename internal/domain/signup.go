package domain

import (
	"time"

	"github.com/google/uuid"
)

// SignupState is the position of a signup session in the two-step flow.
type SignupState string

const (
	SignupStateAwaitingAccount SignupState = "AWAITING_ACCOUNT"
	SignupStateAwaitingProfile SignupState = "AWAITING_PROFILE"
	SignupStateComplete        SignupState = "COMPLETE"
)

// PendingSignup is the transient flow state held between steps. It lives in
// the signup store under a TTL; an expired session is simply gone and the
// user starts over. AccountID is non-empty only after step one succeeded.
type PendingSignup struct {
	SignupID  uuid.UUID
	State     SignupState
	Email     string
	AccountID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Profile is the durable profile record, keyed by the account identifier the
// identity provider issued. Headline and Location belong to the settings
// surface and are never written by the signup flow.
type Profile struct {
	AccountID   string
	Email       string
	FirstName   string
	LastName    string
	Headline    string
	Location    string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Account is a locally managed credential record. Only populated when the
// service runs with the local identity provider; in hosted mode the external
// backend owns accounts entirely.
type Account struct {
	AccountID    uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
