package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoActiveSession   = errors.New("no active session")
	ErrSessionActive     = errors.New("session already active")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrNotVerifying      = errors.New("no verification pending")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrInvalidThresholds = errors.New("thresholds must be positive and strictly ascending")
)
