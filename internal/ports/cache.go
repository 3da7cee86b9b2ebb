package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

// SignupStore holds transient signup sessions under a TTL. Get returns
// (nil, nil) when the session is missing or expired; callers treat both the
// same way. Put overwrites, with the TTL derived from the session's
// ExpiresAt.
type SignupStore interface {
	Put(ctx context.Context, signup domain.PendingSignup) error
	Get(ctx context.Context, signupID uuid.UUID) (*domain.PendingSignup, error)
	Delete(ctx context.Context, signupID uuid.UUID) error
}
