package importance

import "errors"

// Sentinel errors for calculator configuration.
var (
	ErrInvalidWeights = errors.New("invalid context weights")
	ErrInvalidRange   = errors.New("invalid context range")
)
