package ga

import "errors"

var (
	// ErrInvalidConfiguration is returned before any generation runs
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvariantViolation signals a logic defect, e.g. parents of different length
	ErrInvariantViolation = errors.New("invariant violation")
)
