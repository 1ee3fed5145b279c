package engine

import (
	"github.com/okian/hbelo/internal/domain/carryover"
	"github.com/okian/hbelo/internal/domain/goalkeeper"
	"github.com/okian/hbelo/internal/domain/importance"
	"github.com/okian/hbelo/internal/domain/rating"
	"github.com/okian/hbelo/internal/domain/weights"
	"github.com/okian/hbelo/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRegistry sets the action weight registry.
func WithRegistry(r *weights.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithCalculator sets the context importance calculator.
func WithCalculator(c *importance.Calculator) Option {
	return func(e *Engine) {
		if c != nil {
			e.calc = c
		}
	}
}

// WithClassifier sets the goalkeeper classifier.
func WithClassifier(c *goalkeeper.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithPlayerConfig sets the player updater constants.
func WithPlayerConfig(cfg rating.PlayerConfig) Option {
	return func(e *Engine) {
		e.playerCfg = cfg
	}
}

// WithTeamConfig sets the team updater constants.
func WithTeamConfig(cfg rating.TeamConfig) Option {
	return func(e *Engine) {
		e.teamCfg = cfg
	}
}

// WithCarryoverConfig sets the season carryover constants.
func WithCarryoverConfig(cfg carryover.Config) Option {
	return func(e *Engine) {
		e.carryCfg = cfg
	}
}

// WithDedupeSize bounds the number of match ids remembered per season.
func WithDedupeSize(n int) Option {
	return func(e *Engine) {
		e.dedupeSize = n
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}
