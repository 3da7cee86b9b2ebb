package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

func TestMemorySignupStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := NewMemorySignupStore()
	ctx := context.Background()

	signup := domain.PendingSignup{
		SignupID:  uuid.New(),
		State:     domain.SignupStateAwaitingAccount,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.Put(ctx, signup); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, signup.SignupID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.SignupID != signup.SignupID {
		t.Fatalf("expected stored session back, got %+v", got)
	}

	if err := store.Delete(ctx, signup.SignupID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = store.Get(ctx, signup.SignupID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil after delete")
	}
}

func TestMemorySignupStoreExpiry(t *testing.T) {
	t.Parallel()
	store := NewMemorySignupStore()
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.nowFn = func() time.Time { return now }

	signup := domain.PendingSignup{
		SignupID:  uuid.New(),
		State:     domain.SignupStateAwaitingProfile,
		ExpiresAt: now.Add(10 * time.Minute),
	}
	if err := store.Put(ctx, signup); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, _ := store.Get(ctx, signup.SignupID)
	if got == nil {
		t.Fatal("expected live session before expiry")
	}

	now = now.Add(11 * time.Minute)
	got, err := store.Get(ctx, signup.SignupID)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if got != nil {
		t.Fatal("expected expired session to be gone")
	}
}

func TestMemorySignupStoreGetUnknown(t *testing.T) {
	t.Parallel()
	store := NewMemorySignupStore()

	got, err := store.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for unknown session")
	}
}
