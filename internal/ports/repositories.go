package ports

import (
	"context"
	"time"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

// CreateProfileParams provisions the bare profile row that step two later
// fills in.
type CreateProfileParams struct {
	AccountID string
	Email     string
	CreatedAt time.Time
}

// CompleteProfileParams is the step-two update. AccountID is always the
// identifier captured when the account was created, never derived from
// step-two input.
type CompleteProfileParams struct {
	AccountID   string
	FirstName   string
	LastName    string
	CompletedAt time.Time
}

// ProfileStore persists profile records keyed by account identifier.
type ProfileStore interface {
	CreateWithDefaults(ctx context.Context, params CreateProfileParams) (domain.Profile, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Profile, error)
	CompleteProfile(ctx context.Context, params CompleteProfileParams) (domain.Profile, error)
}

// CreateAccountParams inserts a locally owned credential record together
// with its bare profile row in one transaction.
type CreateAccountParams struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountRepository backs the local identity provider. Unused in hosted mode.
type AccountRepository interface {
	CreateWithProfileTx(ctx context.Context, params CreateAccountParams) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
}
