package domain

import "errors"

// Common domain errors
var (
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("no user with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrJobNotFound        = errors.New("job not found")
	// ErrSessionUnavailable means the session record could not be written.
	ErrSessionUnavailable = errors.New("session could not be saved")

	// ErrCorruptRecord wraps a durable record that exists but cannot be parsed.
	// Stores degrade to empty state on it instead of failing.
	ErrCorruptRecord = errors.New("corrupt storage record")
)
