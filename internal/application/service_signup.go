package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
)

const eventTypeSignupCompleted = "signup.completed"

// StartSignup allocates a fresh signup session in the awaiting-account state.
func (s *Service) StartSignup(ctx context.Context) (StartSignupResult, error) {
	now := s.nowFn().UTC()
	signup := domain.PendingSignup{
		SignupID:  uuid.New(),
		State:     domain.SignupStateAwaitingAccount,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SignupTTL),
	}
	if err := s.signups.Put(ctx, signup); err != nil {
		return StartSignupResult{}, fmt.Errorf("store signup session: %w", err)
	}
	s.logger().InfoContext(ctx, "signup session started",
		"operation", "start_signup",
		"outcome", "success",
		"signup_id", signup.SignupID.String(),
	)
	return StartSignupResult{
		SignupID:  signup.SignupID.String(),
		State:     signup.State,
		ExpiresAt: signup.ExpiresAt,
	}, nil
}

// SubmitAccount runs step one: create the account at the identity provider.
// A provider rejection leaves the session in the awaiting-account state so
// the caller can correct the input and resubmit.
func (s *Service) SubmitAccount(ctx context.Context, signupID string, input SubmitAccountInput) (SubmitAccountResult, error) {
	id, err := parseSignupID(signupID)
	if err != nil {
		return SubmitAccountResult{}, err
	}
	email, err := domain.NormalizeEmail(input.Email)
	if err != nil {
		return SubmitAccountResult{}, err
	}
	if err := s.cfg.PasswordPolicy.Validate(input.Password); err != nil {
		return SubmitAccountResult{}, err
	}

	if err := s.beginStep(id); err != nil {
		return SubmitAccountResult{}, err
	}
	defer s.endStep(id)

	signup, err := s.getSignup(ctx, id)
	if err != nil {
		return SubmitAccountResult{}, err
	}
	if signup.State != domain.SignupStateAwaitingAccount {
		return SubmitAccountResult{}, fmt.Errorf("%w: account step already completed", domain.ErrStepOrder)
	}

	accountID, err := s.identity.CreateAccount(ctx, email, input.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrRegistration) {
			err = fmt.Errorf("%w: account creation did not complete, please try again", domain.ErrRegistration)
		}
		s.logger().WarnContext(ctx, "account step rejected",
			"operation", "submit_account",
			"outcome", "failure",
			"signup_id", id.String(),
			"error", err.Error(),
		)
		return SubmitAccountResult{}, err
	}

	signup.AccountID = accountID
	signup.Email = email
	signup.State = domain.SignupStateAwaitingProfile
	if err := s.signups.Put(ctx, *signup); err != nil {
		return SubmitAccountResult{}, fmt.Errorf("store signup session: %w", err)
	}

	s.logger().InfoContext(ctx, "account step completed",
		"operation", "submit_account",
		"outcome", "success",
		"signup_id", id.String(),
		"account_id", accountID,
	)
	return SubmitAccountResult{SignupID: id.String(), State: signup.State}, nil
}

// SubmitProfile runs step two: fill in the profile record created alongside
// the account. The update is keyed by the account identifier captured in
// step one; step-two input never influences which record is touched.
func (s *Service) SubmitProfile(ctx context.Context, signupID string, input SubmitProfileInput) (SubmitProfileResult, error) {
	id, err := parseSignupID(signupID)
	if err != nil {
		return SubmitProfileResult{}, err
	}
	firstName, err := domain.NormalizeName("first name", input.FirstName)
	if err != nil {
		return SubmitProfileResult{}, err
	}
	lastName, err := domain.NormalizeName("last name", input.LastName)
	if err != nil {
		return SubmitProfileResult{}, err
	}

	if err := s.beginStep(id); err != nil {
		return SubmitProfileResult{}, err
	}
	defer s.endStep(id)

	signup, err := s.getSignup(ctx, id)
	if err != nil {
		return SubmitProfileResult{}, err
	}
	if signup.State != domain.SignupStateAwaitingProfile {
		return SubmitProfileResult{}, fmt.Errorf("%w: profile step requires a completed account step", domain.ErrStepOrder)
	}

	now := s.nowFn().UTC()
	if _, err := s.profiles.CompleteProfile(ctx, ports.CompleteProfileParams{
		AccountID:   signup.AccountID,
		FirstName:   firstName,
		LastName:    lastName,
		CompletedAt: now,
	}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: profile record missing for account", domain.ErrProfileUpdate)
		} else {
			err = fmt.Errorf("%w: profile could not be saved, please try again", domain.ErrProfileUpdate)
		}
		s.logger().WarnContext(ctx, "profile step rejected",
			"operation", "submit_profile",
			"outcome", "failure",
			"signup_id", id.String(),
			"account_id", signup.AccountID,
			"error", err.Error(),
		)
		return SubmitProfileResult{}, err
	}

	token, err := s.handoff.Sign(ports.HandoffClaims{
		AccountID: signup.AccountID,
		Email:     signup.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.HandoffTokenTTL),
	})
	if err != nil {
		// The profile write succeeded; the session stays resumable so a
		// retry of this step can mint the token again.
		return SubmitProfileResult{}, fmt.Errorf("sign handoff token: %w", err)
	}

	if err := s.signups.Delete(ctx, id); err != nil {
		s.logger().WarnContext(ctx, "signup session cleanup failed",
			"operation", "submit_profile",
			"signup_id", id.String(),
			"error", err.Error(),
		)
	}
	s.publishSignupCompleted(ctx, signup.AccountID, signup.Email, now)

	s.logger().InfoContext(ctx, "signup completed",
		"operation", "submit_profile",
		"outcome", "success",
		"signup_id", id.String(),
		"account_id", signup.AccountID,
	)
	return SubmitProfileResult{
		SignupID:     id.String(),
		State:        domain.SignupStateComplete,
		AccountID:    signup.AccountID,
		HandoffToken: token,
	}, nil
}

// GetSignup reports the state of a session without mutating it.
func (s *Service) GetSignup(ctx context.Context, signupID string) (SignupStatus, error) {
	id, err := parseSignupID(signupID)
	if err != nil {
		return SignupStatus{}, err
	}
	signup, err := s.getSignup(ctx, id)
	if err != nil {
		return SignupStatus{}, err
	}
	return SignupStatus{
		SignupID:  signup.SignupID.String(),
		State:     signup.State,
		Email:     signup.Email,
		ExpiresAt: signup.ExpiresAt,
	}, nil
}

func (s *Service) getSignup(ctx context.Context, id uuid.UUID) (*domain.PendingSignup, error) {
	signup, err := s.signups.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load signup session: %w", err)
	}
	if signup == nil {
		return nil, fmt.Errorf("%w: signup session does not exist or has expired", domain.ErrNotFound)
	}
	return signup, nil
}

func parseSignupID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: signup id must be a valid uuid", domain.ErrInvalidInput)
	}
	return id, nil
}

func (s *Service) publishSignupCompleted(ctx context.Context, accountID, email string, completedAt time.Time) {
	payload, err := json.Marshal(map[string]any{
		"event_id":    uuid.New().String(),
		"event_type":  eventTypeSignupCompleted,
		"occurred_at": completedAt.Format(time.RFC3339),
		"data": map[string]any{
			"account_id":   accountID,
			"email":        email,
			"completed_at": completedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventTypeSignupCompleted, payload, accountID); err != nil {
		// Event delivery is best effort; the signup itself already finished.
		s.logger().WarnContext(ctx, "event publish failed",
			"operation", "publish_event",
			"event_type", eventTypeSignupCompleted,
			"error", err.Error(),
		)
	}
}
