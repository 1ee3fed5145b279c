package config

import (
	"fmt"
	"strings"
)

var knownFormats = map[string]struct{}{"yaml": {}, "sqlite": {}}

// Validate checks the process settings and every engine section. Errors wrap
// ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.PlayerConfig().Validate(); err != nil {
		return fmt.Errorf("%w: player: %w", ErrInvalidConfig, err)
	}
	if err := c.TeamConfig().Validate(); err != nil {
		return fmt.Errorf("%w: team: %w", ErrInvalidConfig, err)
	}
	co, err := c.CarryoverConfig()
	if err != nil {
		return err
	}
	if err := co.Validate(); err != nil {
		return fmt.Errorf("%w: carryover: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Calculator(); err != nil {
		return err
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSources() error {
	srcs := c.ResolvedSources()
	if len(srcs) == 0 {
		return fmt.Errorf("%w: no sources or leagues configured", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(srcs))
	for i, s := range srcs {
		if s.League == "" {
			return fmt.Errorf("%w: sources[%d]: league must not be empty", ErrInvalidConfig, i)
		}
		if _, dup := seen[s.League]; dup {
			return fmt.Errorf("%w: league %q configured twice", ErrInvalidConfig, s.League)
		}
		seen[s.League] = struct{}{}
		if _, ok := knownFormats[strings.ToLower(s.Format)]; !ok {
			return fmt.Errorf("%w: league %q: unknown format %q", ErrInvalidConfig, s.League, s.Format)
		}
		if s.Path == "" {
			return fmt.Errorf("%w: league %q: path must not be empty", ErrInvalidConfig, s.League)
		}
	}
	return nil
}
