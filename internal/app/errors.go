package service

import "errors"

// Query errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrUnknownLeague = errors.New("unknown league")
	ErrNotRated      = errors.New("league has not been rated yet")
	ErrUnknownSeason = errors.New("unknown season")
)
