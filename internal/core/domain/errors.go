package domain

import "errors"

var (
	// ErrStorageCorruption marks a persisted identity that could not be parsed.
	// It is recovered locally and never shown to the user.
	ErrStorageCorruption = errors.New("stored identity is corrupted")
	// ErrAuthentication is returned for any rejected login. It deliberately
	// carries no detail about which field was wrong.
	ErrAuthentication = errors.New("invalid credentials")
	// ErrNetworkFailure wraps requests that could not complete.
	ErrNetworkFailure = errors.New("backend unreachable")
	// ErrTooManyAttempts is returned when the local login throttle is exhausted.
	ErrTooManyAttempts = errors.New("too many failed login attempts")
	// ErrUnknownRole is returned when a role falls outside the closed set.
	ErrUnknownRole = errors.New("unknown role")
	// ErrNotFound is returned by storage drivers and the backend for missing records.
	ErrNotFound = errors.New("not found")
)

const defaultRegistrationReason = "Registration failed"

// RegistrationError reports a registration the backend refused.
type RegistrationError struct {
	Reason string
}

// NewRegistrationError falls back to a generic reason when the backend gave none.
func NewRegistrationError(reason string) *RegistrationError {
	if reason == "" {
		reason = defaultRegistrationReason
	}
	return &RegistrationError{Reason: reason}
}

func (e *RegistrationError) Error() string {
	return "registration rejected: " + e.Reason
}
