package config

import (
	"fmt"
	"strings"

	"github.com/okian/hbelo/internal/domain/carryover"
	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/internal/domain/goalkeeper"
	"github.com/okian/hbelo/internal/domain/importance"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/rating"
	"github.com/okian/hbelo/internal/domain/weights"
	"github.com/okian/hbelo/pkg/logger"
)

// PlayerConfig maps the player section onto the updater constants. Fields
// without a config key keep their defaults.
func (c *Config) PlayerConfig() rating.PlayerConfig {
	p := rating.DefaultPlayerConfig()
	p.Bounds = rating.Bounds{Min: c.Player.MinRating, Max: c.Player.MaxRating}
	p.Tiers.Elite = c.Player.EliteThreshold
	p.Tiers.Legendary = c.Player.LegendaryThreshold
	p.Tiers.EliteGain = c.Player.EliteGain
	p.Tiers.LegendaryGain = c.Player.LegendaryGain
	p.FieldScale = c.Player.FieldScale
	p.GoalkeeperScale = c.Player.GoalkeeperScale
	p.MaxDelta = c.Player.MaxDelta
	p.MomentumCapacity = c.Player.MomentumWindow
	p.MomentumMinSamples = c.Player.MomentumMinSamples
	p.MomentumDecay = c.Player.MomentumDecay
	p.SpilloverShare = c.Player.SpilloverShare
	p.SpilloverCap = c.Player.SpilloverCap
	p.FallbackRole = m.Role(strings.ToUpper(strings.TrimSpace(c.Player.FallbackRole)))
	p.DefaultPlayer = c.Player.DefaultRating
	p.DefaultGoalkeeper = c.Player.DefaultGoalkeeper
	return p
}

// TeamConfig maps the team section onto the updater constants. Teams share
// the player rating bounds.
func (c *Config) TeamConfig() rating.TeamConfig {
	t := rating.DefaultTeamConfig()
	t.Bounds = rating.Bounds{Min: c.Player.MinRating, Max: c.Player.MaxRating}
	t.Default = c.Team.DefaultRating
	t.HomeAdvantage = c.Team.HomeAdvantage
	t.NewTeamGames = c.Team.NewTeamGames
	t.EliteRating = c.Team.EliteRating
	t.KNew = c.Team.KNew
	t.KElite = c.Team.KElite
	t.KDefault = c.Team.KDefault
	return t
}

// CarryoverConfig maps the carryover section. Role tables are not
// configurable and keep their defaults.
func (c *Config) CarryoverConfig() (carryover.Config, error) {
	co := carryover.DefaultConfig()
	if len(c.Carryover.Consistency) != len(co.Consistency) {
		return co, fmt.Errorf("%w: carryover.consistency needs %d thresholds, got %d",
			ErrInvalidConfig, len(co.Consistency), len(c.Carryover.Consistency))
	}
	co.Bounds = rating.Bounds{Min: c.Player.MinRating, Max: c.Player.MaxRating}
	co.Base = c.Carryover.Base
	co.MaxBonus = c.Carryover.MaxBonus
	co.MinPenalty = c.Carryover.MinPenalty
	co.FullCarryGames = c.Carryover.FullCarryGames
	copy(co.Consistency[:], c.Carryover.Consistency)
	co.TeamMargin = c.Carryover.TeamMargin
	co.Jitter = c.Carryover.Jitter
	return co, nil
}

// Registry builds the weight registry from the weights section.
func (c *Config) Registry() (*weights.Registry, error) {
	w := c.Weights
	opts := []weights.Option{
		weights.WithName(w.Name, w.Version),
		weights.WithStrictUnknownActions(w.Strict),
		weights.WithFieldRoleMultipliers(w.FieldRoles),
	}
	if len(w.Base) > 0 || w.Replace {
		opts = append(opts, weights.WithBaseWeights(actionWeights(w.Base), w.Replace))
	}
	if len(w.Conceding) > 0 {
		opts = append(opts, weights.WithConcedingWeights(actionWeights(w.Conceding)))
	}
	for _, r := range w.Roles {
		opts = append(opts, weights.WithRoleMultiplier(strings.ToUpper(r.Role), r.Action, r.Value))
	}
	reg, err := weights.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return reg, nil
}

func actionWeights(in []ActionWeight) map[string]float64 {
	out := make(map[string]float64, len(in))
	for _, aw := range in {
		out[aw.Action] = aw.Weight
	}
	return out
}

// Calculator builds the context importance calculator.
func (c *Config) Calculator() (*importance.Calculator, error) {
	calc, err := importance.New(importance.Weights{
		Timing:         c.Context.Timing,
		Score:          c.Context.Score,
		Momentum:       c.Context.Momentum,
		ActionClass:    c.Context.ActionClass,
		GoalkeeperSave: c.Context.GoalkeeperSave,
	}, c.Context.Min, c.Context.Max)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return calc, nil
}

// Classifier builds the goalkeeper classifier with the override list.
func (c *Config) Classifier(log logger.Logger) *goalkeeper.Classifier {
	g := c.Goalkeeper
	return goalkeeper.New(
		goalkeeper.WithInSeasonThresholds(goalkeeper.Thresholds(g.InSeason)),
		goalkeeper.WithSeasonEndThresholds(goalkeeper.Thresholds(g.SeasonEnd)),
		goalkeeper.WithFieldPlayers(g.FieldPlayers...),
		goalkeeper.WithDemotion(g.DemotionBlend, g.FieldBaseline),
		goalkeeper.WithLogger(log),
	)
}

// EngineOptions assembles every engine component from the configuration.
func (c *Config) EngineOptions(log logger.Logger) ([]engine.Option, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	calc, err := c.Calculator()
	if err != nil {
		return nil, err
	}
	co, err := c.CarryoverConfig()
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithRegistry(reg),
		engine.WithCalculator(calc),
		engine.WithClassifier(c.Classifier(log)),
		engine.WithPlayerConfig(c.PlayerConfig()),
		engine.WithTeamConfig(c.TeamConfig()),
		engine.WithCarryoverConfig(co),
		engine.WithDedupeSize(c.DedupeSize),
	}, nil
}
