package application

import (
	"time"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
)

// StartSignupResult is returned when a fresh signup session is allocated.
type StartSignupResult struct {
	SignupID  string
	State     domain.SignupState
	ExpiresAt time.Time
}

// SubmitAccountInput is the step-one submission.
type SubmitAccountInput struct {
	Email    string
	Password string
}

// SubmitAccountResult reports the session state after step one.
type SubmitAccountResult struct {
	SignupID string
	State    domain.SignupState
}

// SubmitProfileInput is the step-two submission.
type SubmitProfileInput struct {
	FirstName string
	LastName  string
}

// SubmitProfileResult reports the completed signup. HandoffToken carries
// the account identity to the onboarding step that follows.
type SubmitProfileResult struct {
	SignupID     string
	State        domain.SignupState
	AccountID    string
	HandoffToken string
}

// SignupStatus is the read-only view of a session.
type SignupStatus struct {
	SignupID  string
	State     domain.SignupState
	Email     string
	ExpiresAt time.Time
}
