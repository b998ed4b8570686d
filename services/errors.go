package services

import "errors"

// Error kinds returned by the workflow services. Controllers map these to
// HTTP status codes with errors.Is; callers inside the package wrap them with
// fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an absent referenced entity.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an actor lacking ownership or role for the action.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState marks an operation not legal for the current status.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict marks a uniqueness violation not otherwise covered.
	ErrConflict = errors.New("conflict")
)
