package domain

import "errors"

// Sentinel errors shared across layers. Adapters translate storage and
// transport failures into these; the HTTP layer maps them onto status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	// ErrRegistration wraps a rejection from the identity provider during
	// step one. The wrapped message is human-readable and safe to surface.
	ErrRegistration = errors.New("registration failed")

	// ErrProfileUpdate wraps a profile store failure during step two.
	ErrProfileUpdate = errors.New("profile update failed")

	// ErrStepOrder is returned when a step is submitted out of sequence,
	// for example submitting profile details before an account exists.
	ErrStepOrder = errors.New("step out of order")

	// ErrSubmissionInFlight is returned when a submission arrives for a
	// signup session whose previous submission has not resolved yet.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)
