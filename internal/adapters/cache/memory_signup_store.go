package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

// MemorySignupStore is the default, process-local session store. Sessions do
// not survive a restart, which matches the non-resumable flow contract.
// Expiry is checked lazily on read.
type MemorySignupStore struct {
	mu      sync.Mutex
	signups map[uuid.UUID]domain.PendingSignup
	nowFn   func() time.Time
}

func NewMemorySignupStore() *MemorySignupStore {
	return &MemorySignupStore{
		signups: make(map[uuid.UUID]domain.PendingSignup),
		nowFn:   time.Now,
	}
}

func (s *MemorySignupStore) Put(_ context.Context, signup domain.PendingSignup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signups[signup.SignupID] = signup
	return nil
}

func (s *MemorySignupStore) Get(_ context.Context, signupID uuid.UUID) (*domain.PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	signup, ok := s.signups[signupID]
	if !ok {
		return nil, nil
	}
	if !signup.ExpiresAt.After(s.nowFn()) {
		delete(s.signups, signupID)
		return nil, nil
	}
	out := signup
	return &out, nil
}

func (s *MemorySignupStore) Delete(_ context.Context, signupID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.signups, signupID)
	return nil
}
