package application

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
)

// Config carries the tunables the service needs at runtime.
type Config struct {
	SignupTTL       time.Duration
	HandoffTokenTTL time.Duration
	PasswordPolicy  domain.PasswordPolicy
}

// Dependencies wires the service to its ports.
type Dependencies struct {
	Signups   ports.SignupStore
	Identity  ports.IdentityProvider
	Profiles  ports.ProfileStore
	Publisher ports.EventPublisher
	Handoff   ports.HandoffSigner
}

// Service implements the signup flow use-cases.
type Service struct {
	cfg       Config
	signups   ports.SignupStore
	identity  ports.IdentityProvider
	profiles  ports.ProfileStore
	publisher ports.EventPublisher
	handoff   ports.HandoffSigner

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}

	nowFn func() time.Time
}

// NewService validates the wiring and constructs the service.
func NewService(cfg Config, deps Dependencies) (*Service, error) {
	if deps.Signups == nil || deps.Identity == nil || deps.Profiles == nil || deps.Publisher == nil || deps.Handoff == nil {
		return nil, fmt.Errorf("application: missing dependencies")
	}
	if cfg.SignupTTL <= 0 {
		cfg.SignupTTL = 30 * time.Minute
	}
	if cfg.HandoffTokenTTL <= 0 {
		cfg.HandoffTokenTTL = 5 * time.Minute
	}
	return &Service{
		cfg:       cfg,
		signups:   deps.Signups,
		identity:  deps.Identity,
		profiles:  deps.Profiles,
		publisher: deps.Publisher,
		handoff:   deps.Handoff,
		inflight:  make(map[uuid.UUID]struct{}),
		nowFn:     time.Now,
	}, nil
}

func (s *Service) logger() *slog.Logger {
	return slog.Default().With(
		"service", "signup-service",
		"module", "application",
		"layer", "service",
	)
}

// beginStep marks a signup session as having a submission in flight. It
// fails when another submission for the same session has not resolved yet.
func (s *Service) beginStep(signupID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[signupID]; busy {
		return fmt.Errorf("%w: signup %s", domain.ErrSubmissionInFlight, signupID)
	}
	s.inflight[signupID] = struct{}{}
	return nil
}

func (s *Service) endStep(signupID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, signupID)
}
