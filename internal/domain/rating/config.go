// Package rating applies player and team rating changes.
package rating

import (
	"fmt"
	"math"

	m "github.com/okian/hbelo/internal/domain/model"
)

// Bounds is the global rating range.
type Bounds struct {
	Min float64
	Max float64
}

// Clamp limits v to the bounds.
func (b Bounds) Clamp(v float64) float64 {
	return math.Max(b.Min, math.Min(b.Max, v))
}

// Validate rejects an empty range.
func (b Bounds) Validate() error {
	if !(b.Min < b.Max) {
		return fmt.Errorf("%w: bounds [%v, %v]", ErrInvalidConfig, b.Min, b.Max)
	}
	return nil
}

// Tier is an elite band.
type Tier string

// Tiers, lowest first.
const (
	TierNormal    Tier = "normal"
	TierElite     Tier = "elite"
	TierLegendary Tier = "legendary"
)

// Tiers configures elite damping.
type Tiers struct {
	Elite         float64
	Legendary     float64
	NormalGain    float64
	EliteGain     float64
	LegendaryGain float64
}

// Of returns the tier of rating r.
func (t Tiers) Of(r float64) Tier {
	switch {
	case r >= t.Legendary:
		return TierLegendary
	case r >= t.Elite:
		return TierElite
	default:
		return TierNormal
	}
}

// Gain returns the gain multiplier at rating r.
func (t Tiers) Gain(r float64) float64 {
	switch t.Of(r) {
	case TierLegendary:
		return t.LegendaryGain
	case TierElite:
		return t.EliteGain
	default:
		return t.NormalGain
	}
}

// PlayerConfig holds the player updater constants.
type PlayerConfig struct {
	Bounds Bounds
	Tiers  Tiers

	FieldScale      float64
	GoalkeeperScale float64
	MaxDelta        float64

	MomentumCapacity   int
	MomentumMinSamples int
	MomentumDecay      float64
	MomentumFloor      float64
	MomentumSpan       float64

	SpilloverShare float64
	SpilloverCap   float64

	// FallbackRole scores actions with a situational or missing role code.
	FallbackRole m.Role

	DefaultPlayer     float64
	DefaultGoalkeeper float64
}

// DefaultPlayerConfig returns the standard constants.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Bounds:             Bounds{Min: 800, Max: 3000},
		Tiers:              Tiers{Elite: 1700, Legendary: 2100, NormalGain: 1.0, EliteGain: 0.6, LegendaryGain: 0.3},
		FieldScale:         0.008,
		GoalkeeperScale:    0.010,
		MaxDelta:           16,
		MomentumCapacity:   5,
		MomentumMinSamples: 3,
		MomentumDecay:      0.85,
		MomentumFloor:      0.9,
		MomentumSpan:       0.2,
		SpilloverShare:     0.2,
		SpilloverCap:       3,
		FallbackRole:       m.RoleRightWing,
		DefaultPlayer:      1200,
		DefaultGoalkeeper:  1250,
	}
}

// Validate checks the player constants.
func (c PlayerConfig) Validate() error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	switch {
	case c.Tiers.Elite >= c.Tiers.Legendary:
		return fmt.Errorf("%w: elite threshold must be below legendary", ErrInvalidConfig)
	case c.MaxDelta <= 0 || c.FieldScale <= 0 || c.GoalkeeperScale <= 0:
		return fmt.Errorf("%w: scales and max delta must be positive", ErrInvalidConfig)
	case c.MomentumCapacity < 1 || c.MomentumMinSamples < 1 || c.MomentumDecay <= 0 || c.MomentumDecay > 1:
		return fmt.Errorf("%w: momentum window", ErrInvalidConfig)
	case c.SpilloverShare < 0 || c.SpilloverCap < 0:
		return fmt.Errorf("%w: spillover", ErrInvalidConfig)
	case c.FallbackRole != m.RoleNone && !c.FallbackRole.IsPure():
		return fmt.Errorf("%w: fallback role %q", ErrInvalidConfig, c.FallbackRole)
	}
	return nil
}

// TeamConfig holds the team updater constants.
type TeamConfig struct {
	Bounds        Bounds
	Default       float64
	HomeAdvantage float64

	// Expectation is 1 at or above SaturateAbove, 0 at or below
	// SaturateBelow and Intercept+Slope*gap in between.
	SaturateAbove float64
	SaturateBelow float64
	Intercept     float64
	Slope         float64

	NewTeamGames int
	EliteRating  float64
	KNew         float64
	KElite       float64
	KDefault     float64
}

// DefaultTeamConfig returns the standard constants.
func DefaultTeamConfig() TeamConfig {
	return TeamConfig{
		Bounds:        Bounds{Min: 800, Max: 3000},
		Default:       1350,
		HomeAdvantage: 25,
		SaturateAbove: 300,
		SaturateBelow: -350,
		Intercept:     0.55,
		Slope:         0.0012,
		NewTeamGames:  10,
		EliteRating:   1600,
		KNew:          22,
		KElite:        10,
		KDefault:      14,
	}
}

// Validate checks the team constants.
func (c TeamConfig) Validate() error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	switch {
	case c.SaturateBelow >= c.SaturateAbove:
		return fmt.Errorf("%w: saturation gap bounds", ErrInvalidConfig)
	case c.Slope <= 0:
		return fmt.Errorf("%w: expectation slope", ErrInvalidConfig)
	case c.KNew < 0 || c.KElite < 0 || c.KDefault < 0:
		return fmt.Errorf("%w: negative k-factor", ErrInvalidConfig)
	}
	return nil
}
