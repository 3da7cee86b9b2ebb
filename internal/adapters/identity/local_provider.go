package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
)

// LocalProvider owns accounts in this service's own database. It replicates
// the hosted backend's guarantee that the bare profile row exists as soon as
// the account does, by writing both in one transaction.
type LocalProvider struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	nowFn    func() time.Time
}

// NewLocalProvider wires the self-contained identity mode.
func NewLocalProvider(accounts ports.AccountRepository, hasher ports.PasswordHasher) (*LocalProvider, error) {
	if accounts == nil || hasher == nil {
		return nil, fmt.Errorf("identity: missing local provider dependencies")
	}
	return &LocalProvider{accounts: accounts, hasher: hasher, nowFn: time.Now}, nil
}

// CreateAccount hashes the password and inserts the account with its bare
// profile row. A duplicate email maps onto a registration rejection so the
// caller sees the same taxonomy as in hosted mode. The precheck rejects
// known duplicates before the bcrypt work; the transactional conflict
// mapping below still covers concurrent registrations.
func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	_, err := p.accounts.GetByEmail(ctx, email)
	if err == nil {
		return "", fmt.Errorf("%w: an account with this email already exists", domain.ErrRegistration)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("check existing account: %w", err)
	}

	hash, err := p.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	account, err := p.accounts.CreateWithProfileTx(ctx, ports.CreateAccountParams{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    p.nowFn().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return "", fmt.Errorf("%w: an account with this email already exists", domain.ErrRegistration)
		}
		return "", fmt.Errorf("create account: %w", err)
	}
	return account.AccountID.String(), nil
}
