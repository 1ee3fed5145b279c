package simulate

import "errors"

var (
	// ErrNoLeagues is returned when the config names no league or season.
	ErrNoLeagues = errors.New("no leagues or seasons to simulate")
	// ErrUnhealthy is returned when the service health check fails.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrNotReady is returned when the service serves no ratings in time.
	ErrNotReady = errors.New("service not ready")
	// ErrMismatch is returned when served ratings differ from the local run.
	ErrMismatch = errors.New("leaderboard mismatch")
)
