package rating

import "errors"

// ErrInvalidConfig is returned for inconsistent updater constants.
var ErrInvalidConfig = errors.New("invalid rating config")
