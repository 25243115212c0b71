package models

import "errors"

// Custom errors
var (
	ErrUnsupportedLeague     = errors.New("league not supported")
	ErrInvalidOdds           = errors.New("invalid odds")
	ErrInvalidProbabilities  = errors.New("invalid probability triple")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInsufficientBankroll  = errors.New("insufficient bankroll")
	ErrLimitExceeded         = errors.New("loss limit exceeded")
	ErrAlreadySettled        = errors.New("transaction already settled")
	ErrModelLoadFailure      = errors.New("model load failure")
	ErrMissingRequiredField  = errors.New("missing required field")
	ErrNotFound              = errors.New("record not found")
	ErrDuplicateKey          = errors.New("duplicate key violation")
)
