package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
)

type fakeSignupStore struct {
	mu      sync.Mutex
	signups map[uuid.UUID]domain.PendingSignup
}

func newFakeSignupStore() *fakeSignupStore {
	return &fakeSignupStore{signups: make(map[uuid.UUID]domain.PendingSignup)}
}

func (s *fakeSignupStore) Put(_ context.Context, signup domain.PendingSignup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signups[signup.SignupID] = signup
	return nil
}

func (s *fakeSignupStore) Get(_ context.Context, signupID uuid.UUID) (*domain.PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	signup, ok := s.signups[signupID]
	if !ok {
		return nil, nil
	}
	out := signup
	return &out, nil
}

func (s *fakeSignupStore) Delete(_ context.Context, signupID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.signups, signupID)
	return nil
}

func (s *fakeSignupStore) get(signupID uuid.UUID) (domain.PendingSignup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	signup, ok := s.signups[signupID]
	return signup, ok
}

type fakeIdentity struct {
	mu        sync.Mutex
	accountID string
	err       error
	calls     int

	// When set, CreateAccount signals started and waits on release. Used to
	// exercise the in-flight submission guard.
	started chan struct{}
	release chan struct{}
}

func (f *fakeIdentity) CreateAccount(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	started, release := f.started, f.release
	accountID, err := f.accountID, f.err
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return "", err
	}
	return accountID, nil
}

func (f *fakeIdentity) set(accountID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountID = accountID
	f.err = err
}

type fakeProfileStore struct {
	mu          sync.Mutex
	profiles    map[string]domain.Profile
	completeErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]domain.Profile)}
}

func (s *fakeProfileStore) CreateWithDefaults(_ context.Context, params ports.CreateProfileParams) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[params.AccountID]; exists {
		return domain.Profile{}, domain.ErrConflict
	}
	profile := domain.Profile{
		AccountID: params.AccountID,
		Email:     params.Email,
		CreatedAt: params.CreatedAt,
		UpdatedAt: params.CreatedAt,
	}
	s.profiles[params.AccountID] = profile
	return profile, nil
}

func (s *fakeProfileStore) GetByAccountID(_ context.Context, accountID string) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[accountID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return profile, nil
}

func (s *fakeProfileStore) CompleteProfile(_ context.Context, params ports.CompleteProfileParams) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completeErr != nil {
		return domain.Profile{}, s.completeErr
	}
	profile, ok := s.profiles[params.AccountID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	profile.FirstName = params.FirstName
	profile.LastName = params.LastName
	completedAt := params.CompletedAt
	profile.CompletedAt = &completedAt
	profile.UpdatedAt = params.CompletedAt
	s.profiles[params.AccountID] = profile
	return profile, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) Publish(_ context.Context, eventType string, _ []byte, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type fakeSigner struct{}

func (fakeSigner) Sign(claims ports.HandoffClaims) (string, error) {
	return "handoff." + claims.AccountID, nil
}

func (fakeSigner) ParseAndValidate(token string) (ports.HandoffClaims, error) {
	return ports.HandoffClaims{AccountID: strings.TrimPrefix(token, "handoff.")}, nil
}

type fixture struct {
	svc       *Service
	signups   *fakeSignupStore
	identity  *fakeIdentity
	profiles  *fakeProfileStore
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	signups := newFakeSignupStore()
	identity := &fakeIdentity{accountID: "abc123"}
	profiles := newFakeProfileStore()
	publisher := &fakePublisher{}

	svc, err := NewService(Config{
		SignupTTL:       30 * time.Minute,
		HandoffTokenTTL: 5 * time.Minute,
		PasswordPolicy: domain.PasswordPolicy{
			MinLength:    8,
			RequireLower: true,
			RequireDigit: true,
		},
	}, Dependencies{
		Signups:   signups,
		Identity:  identity,
		Profiles:  profiles,
		Publisher: publisher,
		Handoff:   fakeSigner{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.nowFn = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return &fixture{svc: svc, signups: signups, identity: identity, profiles: profiles, publisher: publisher}
}

// startAndSubmitAccount walks a fresh session through a successful step one.
func (f *fixture) startAndSubmitAccount(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	started, err := f.svc.StartSignup(ctx)
	if err != nil {
		t.Fatalf("start signup: %v", err)
	}
	f.profiles.profiles["abc123"] = domain.Profile{AccountID: "abc123", Email: "taylor@example.com"}
	if _, err := f.svc.SubmitAccount(ctx, started.SignupID, SubmitAccountInput{
		Email:    "taylor@example.com",
		Password: "sturdy-pass1",
	}); err != nil {
		t.Fatalf("submit account: %v", err)
	}
	return started.SignupID
}

func TestSignupHappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	signupID := f.startAndSubmitAccount(t)

	id := uuid.MustParse(signupID)
	stored, ok := f.signups.get(id)
	if !ok {
		t.Fatal("expected session to survive step one")
	}
	if stored.State != domain.SignupStateAwaitingProfile {
		t.Fatalf("expected AWAITING_PROFILE after step one, got %s", stored.State)
	}
	if stored.AccountID != "abc123" {
		t.Fatalf("expected captured account id abc123, got %q", stored.AccountID)
	}

	res, err := f.svc.SubmitProfile(ctx, signupID, SubmitProfileInput{FirstName: " Avery ", LastName: "Jones"})
	if err != nil {
		t.Fatalf("submit profile: %v", err)
	}
	if res.State != domain.SignupStateComplete {
		t.Fatalf("expected COMPLETE, got %s", res.State)
	}
	if res.AccountID != "abc123" {
		t.Fatalf("expected account id abc123, got %q", res.AccountID)
	}
	if res.HandoffToken != "handoff.abc123" {
		t.Fatalf("unexpected handoff token %q", res.HandoffToken)
	}

	profile, err := f.profiles.GetByAccountID(ctx, "abc123")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.FirstName != "Avery" || profile.LastName != "Jones" {
		t.Fatalf("expected trimmed names persisted, got %q %q", profile.FirstName, profile.LastName)
	}
	if profile.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}

	if _, ok := f.signups.get(id); ok {
		t.Fatal("expected session to be deleted after completion")
	}
	if events := f.publisher.published(); len(events) != 1 || events[0] != "signup.completed" {
		t.Fatalf("expected signup.completed event, got %v", events)
	}
}

func TestSubmitAccountProviderRejectionKeepsState(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.svc.StartSignup(ctx)
	if err != nil {
		t.Fatalf("start signup: %v", err)
	}
	f.identity.set("", fmt.Errorf("%w: an account with this email already exists", domain.ErrRegistration))

	_, err = f.svc.SubmitAccount(ctx, started.SignupID, SubmitAccountInput{
		Email:    "taken@example.com",
		Password: "sturdy-pass1",
	})
	if !errors.Is(err, domain.ErrRegistration) {
		t.Fatalf("expected registration error, got %v", err)
	}
	if err.Error() != "registration failed: an account with this email already exists" {
		t.Fatalf("expected provider message carried in the wrap, got %q", err.Error())
	}

	stored, ok := f.signups.get(uuid.MustParse(started.SignupID))
	if !ok {
		t.Fatal("expected session to survive a rejected step")
	}
	if stored.State != domain.SignupStateAwaitingAccount {
		t.Fatalf("expected state unchanged, got %s", stored.State)
	}
	if stored.AccountID != "" {
		t.Fatalf("expected no account id captured, got %q", stored.AccountID)
	}

	// Correcting the input on the same session succeeds.
	f.identity.set("abc123", nil)
	f.profiles.profiles["abc123"] = domain.Profile{AccountID: "abc123"}
	res, err := f.svc.SubmitAccount(ctx, started.SignupID, SubmitAccountInput{
		Email:    "fresh@example.com",
		Password: "sturdy-pass1",
	})
	if err != nil {
		t.Fatalf("resubmit account: %v", err)
	}
	if res.State != domain.SignupStateAwaitingProfile {
		t.Fatalf("expected AWAITING_PROFILE after resubmit, got %s", res.State)
	}
}

func TestSubmitAccountUnclassifiedFaultMapsToRegistration(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	started, _ := f.svc.StartSignup(ctx)
	f.identity.set("", errors.New("dial tcp: connection refused"))

	_, err := f.svc.SubmitAccount(ctx, started.SignupID, SubmitAccountInput{
		Email:    "taylor@example.com",
		Password: "sturdy-pass1",
	})
	if !errors.Is(err, domain.ErrRegistration) {
		t.Fatalf("expected registration error for transport fault, got %v", err)
	}
	stored, _ := f.signups.get(uuid.MustParse(started.SignupID))
	if stored.State != domain.SignupStateAwaitingAccount {
		t.Fatalf("expected state unchanged, got %s", stored.State)
	}
}

func TestSubmitProfileFailureKeepsStateAndAccount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	signupID := f.startAndSubmitAccount(t)
	f.profiles.completeErr = errors.New("connection reset")

	_, err := f.svc.SubmitProfile(ctx, signupID, SubmitProfileInput{FirstName: "Avery", LastName: "Jones"})
	if !errors.Is(err, domain.ErrProfileUpdate) {
		t.Fatalf("expected profile update error, got %v", err)
	}

	stored, ok := f.signups.get(uuid.MustParse(signupID))
	if !ok {
		t.Fatal("expected session to survive a failed profile step")
	}
	if stored.State != domain.SignupStateAwaitingProfile {
		t.Fatalf("expected AWAITING_PROFILE preserved, got %s", stored.State)
	}
	if stored.AccountID != "abc123" {
		t.Fatalf("expected account id preserved, got %q", stored.AccountID)
	}
	if len(f.publisher.published()) != 0 {
		t.Fatal("expected no completion event after failed profile step")
	}

	// A retry on the same session completes the flow.
	f.profiles.completeErr = nil
	res, err := f.svc.SubmitProfile(ctx, signupID, SubmitProfileInput{FirstName: "Avery", LastName: "Jones"})
	if err != nil {
		t.Fatalf("retry profile step: %v", err)
	}
	if res.State != domain.SignupStateComplete {
		t.Fatalf("expected COMPLETE after retry, got %s", res.State)
	}
}

func TestSubmitProfileMissingRowMapsToProfileUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	signupID := f.startAndSubmitAccount(t)
	delete(f.profiles.profiles, "abc123")

	_, err := f.svc.SubmitProfile(ctx, signupID, SubmitProfileInput{FirstName: "Avery", LastName: "Jones"})
	if !errors.Is(err, domain.ErrProfileUpdate) {
		t.Fatalf("expected profile update error for missing row, got %v", err)
	}
}

func TestSubmitProfileRequiresAccountStep(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	started, _ := f.svc.StartSignup(ctx)
	_, err := f.svc.SubmitProfile(ctx, started.SignupID, SubmitProfileInput{FirstName: "Avery", LastName: "Jones"})
	if !errors.Is(err, domain.ErrStepOrder) {
		t.Fatalf("expected step order error, got %v", err)
	}
}

func TestSubmitAccountTwiceRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	signupID := f.startAndSubmitAccount(t)
	_, err := f.svc.SubmitAccount(ctx, signupID, SubmitAccountInput{
		Email:    "other@example.com",
		Password: "sturdy-pass1",
	})
	if !errors.Is(err, domain.ErrStepOrder) {
		t.Fatalf("expected step order error for repeated account step, got %v", err)
	}
}

func TestSubmissionInFlightGuard(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	started, _ := f.svc.StartSignup(ctx)
	f.identity.started = make(chan struct{}, 1)
	f.identity.release = make(chan struct{})

	errCh := make(chan error, 1)
	go func() {
		_, err := f.svc.SubmitAccount(ctx, started.SignupID, SubmitAccountInput{
			Email:    "taylor@example.com",
			Password: "sturdy-pass1",
		})
		errCh <- err
	}()

	<-f.identity.started

	_, err := f.svc.SubmitAccount(ctx, started.SignupID, SubmitAccountInput{
		Email:    "taylor@example.com",
		Password: "sturdy-pass1",
	})
	if !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}

	close(f.identity.release)
	if err := <-errCh; err != nil {
		t.Fatalf("first submission should succeed, got %v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	started, _ := f.svc.StartSignup(ctx)

	cases := []struct {
		name  string
		email string
		pass  string
	}{
		{"bad email", "not-an-email", "sturdy-pass1"},
		{"short password", "taylor@example.com", "a1"},
		{"missing digit", "taylor@example.com", "allletters"},
	}
	for _, tc := range cases {
		if _, err := f.svc.SubmitAccount(ctx, started.SignupID, SubmitAccountInput{Email: tc.email, Password: tc.pass}); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", tc.name, err)
		}
	}
	if f.identity.calls != 0 {
		t.Fatalf("expected no provider calls on validation failure, got %d", f.identity.calls)
	}

	stored, _ := f.signups.get(uuid.MustParse(started.SignupID))
	if stored.State != domain.SignupStateAwaitingAccount {
		t.Fatalf("expected state unchanged after validation failures, got %s", stored.State)
	}
}

func TestUnknownSignup(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GetSignup(ctx, uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.SubmitAccount(ctx, uuid.NewString(), SubmitAccountInput{
		Email:    "taylor@example.com",
		Password: "sturdy-pass1",
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.GetSignup(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for malformed id, got %v", err)
	}
}
