package services

import "errors"

// Stable error kinds surfaced by the booking core. Controllers map these to
// HTTP statuses; raw store errors are wrapped and never shown to clients.
var (
	ErrValidation        = errors.New("validation_failed")
	ErrNotFound          = errors.New("not_found")
	ErrCapacityExceeded  = errors.New("capacity_exceeded")
	ErrInvalidState      = errors.New("invalid_state")
	ErrAlreadyExists     = errors.New("already_exists")
	ErrEditLimitExceeded = errors.New("edit_limit_exceeded")
)
