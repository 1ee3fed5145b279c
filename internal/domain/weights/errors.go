package weights

import "errors"

// Sentinel errors. Both are fatal for a rating run.
var (
	ErrMissingWeight      = errors.New("missing action weight")
	ErrIncompleteRegistry = errors.New("incomplete weight registry")
	ErrInvalidMultiplier  = errors.New("invalid role multiplier")
)
