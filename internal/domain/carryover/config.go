package carryover

import (
	"errors"
	"fmt"

	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/rating"
)

// ErrInvalidConfig is returned for inconsistent carryover constants.
var ErrInvalidConfig = errors.New("invalid carryover config")

// Config holds the carryover constants.
type Config struct {
	Bounds rating.Bounds

	// Base anchors the cap band [Base+MinPenalty, Base+MaxBonus] and the
	// defaults for players without history.
	Base           float64
	MaxBonus       float64
	MinPenalty     float64
	FullCarryGames int

	RoleStart       map[m.Role]float64
	RoleProgression map[m.Role]float64

	// Consistency holds the three ascending spread thresholds.
	Consistency [3]float64
	TeamMargin  float64
	Jitter      float64
}

// DefaultConfig returns the standard constants.
func DefaultConfig() Config {
	return Config{
		Bounds:         rating.Bounds{Min: 800, Max: 3000},
		Base:           1200,
		MaxBonus:       400,
		MinPenalty:     -200,
		FullCarryGames: 12,
		RoleStart: map[m.Role]float64{
			m.RoleGoalkeeper: 30, m.RoleCentreBack: 15, m.RolePivot: 10,
		},
		RoleProgression: map[m.Role]float64{
			m.RoleGoalkeeper: 0.85, m.RoleCentreBack: 1.15, m.RolePivot: 1.10,
			m.RoleLeftWing: 1.05, m.RoleRightWing: 1.05,
			m.RoleLeftBack: 0.95, m.RoleRightBack: 0.95,
		},
		Consistency: [3]float64{30, 50, 80},
		TeamMargin:  100,
		Jitter:      3,
	}
}

// Validate checks the constants.
func (c Config) Validate() error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	switch {
	case c.MinPenalty > 0 || c.MaxBonus < 0:
		return fmt.Errorf("%w: cap band", ErrInvalidConfig)
	case c.FullCarryGames <= 8:
		return fmt.Errorf("%w: full carry games must exceed 8", ErrInvalidConfig)
	case !(c.Consistency[0] < c.Consistency[1] && c.Consistency[1] < c.Consistency[2]):
		return fmt.Errorf("%w: consistency thresholds must ascend", ErrInvalidConfig)
	case c.Jitter < 0 || c.TeamMargin < 0:
		return fmt.Errorf("%w: negative jitter or team margin", ErrInvalidConfig)
	}
	return nil
}
