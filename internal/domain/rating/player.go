package rating

import (
	"math"

	"github.com/okian/hbelo/internal/domain/goalkeeper"
	"github.com/okian/hbelo/internal/domain/importance"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/store"
	"github.com/okian/hbelo/internal/domain/weights"
)

// Outcome describes what one action did to a player.
type Outcome struct {
	Applied   bool
	Conceding bool
	Role      m.Role
	Base      float64
	Context   float64
	Momentum  float64
	Delta     float64
	Spillover float64
}

// PlayerUpdater applies resolved actions to player state.
type PlayerUpdater struct {
	cfg  PlayerConfig
	reg  *weights.Registry
	calc *importance.Calculator
}

// NewPlayerUpdater validates cfg and returns an updater.
func NewPlayerUpdater(cfg PlayerConfig, reg *weights.Registry, calc *importance.Calculator) (*PlayerUpdater, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PlayerUpdater{cfg: cfg, reg: reg, calc: calc}, nil
}

// Config returns the updater constants.
func (u *PlayerUpdater) Config() PlayerConfig { return u.cfg }

// InitialRating is the first-season default for a player first seen in a.
func (u *PlayerUpdater) InitialRating(a m.ResolvedAction) float64 {
	if a.Goalkeeper || a.Role == m.RoleGoalkeeper {
		return u.cfg.DefaultGoalkeeper
	}
	return u.cfg.DefaultPlayer
}

// Apply scores a for player p and spills part of the change onto team.
// A zero base weight leaves all state untouched. The only error is
// weights.ErrMissingWeight from a strict registry.
func (u *PlayerUpdater) Apply(p *store.PlayerState, team *store.TeamState, a m.ResolvedAction, home, away m.TeamID) (Outcome, error) {
	out := Outcome{Role: goalkeeper.EffectiveRole(p.Evidence, a, u.cfg.FallbackRole), Context: 1, Momentum: 1}

	roleMult := 1.0
	if w, ok := u.reg.Conceding(a.Action); ok && a.Goalkeeper {
		// Conceding is scored as is: no role, momentum or context boost.
		out.Base, out.Conceding = w, true
	} else {
		w, err := u.reg.Base(a.Action)
		if err != nil {
			return Outcome{}, err
		}
		out.Base = w
		if w == 0 {
			return out, nil
		}
		roleMult = u.reg.RoleMultiplier(out.Role, a.Action)
		out.Momentum = u.momentum(p)
		out.Context = u.calc.Multiplier(importance.Input{
			Action: a.Action, Time: a.Time, Score: a.Score, Team: a.Team, Home: home, Away: away,
		})
	}
	if out.Base == 0 {
		return out, nil
	}

	total := out.Base * timePhase(a.Time) * scoreCloseness(a.Score.Diff()) * roleMult * out.Momentum * out.Context
	scale := u.cfg.FieldScale
	if out.Role == m.RoleGoalkeeper {
		scale = u.cfg.GoalkeeperScale
	}
	delta := total * scale * u.cfg.Tiers.Gain(p.Rating)
	delta = math.Max(-u.cfg.MaxDelta, math.Min(u.cfg.MaxDelta, delta))

	p.Rating = u.cfg.Bounds.Clamp(p.Rating + delta)
	if a.Role.IsPure() {
		p.RoleCounts[a.Role]++
	}
	p.TeamCounts[a.Team]++
	p.Momentum.Push(0.5 + delta/(2*u.cfg.MaxDelta))

	if team != nil {
		spill := math.Max(-u.cfg.SpilloverCap, math.Min(u.cfg.SpilloverCap, delta*u.cfg.SpilloverShare))
		team.Rating = u.cfg.Bounds.Clamp(team.Rating + spill)
		out.Spillover = spill
	}

	out.Applied = true
	out.Delta = delta
	return out, nil
}

// momentum maps the decayed mean of recent samples into
// [MomentumFloor, MomentumFloor+MomentumSpan]. Short histories are neutral.
func (u *PlayerUpdater) momentum(p *store.PlayerState) float64 {
	if p.Momentum.Len() < u.cfg.MomentumMinSamples {
		return 1.0
	}
	mean, _ := p.Momentum.DecayedMean(u.cfg.MomentumDecay)
	return u.cfg.MomentumFloor + u.cfg.MomentumSpan*math.Max(0, math.Min(1, mean))
}

// MomentumValue exposes the current momentum multiplier of p.
func (u *PlayerUpdater) MomentumValue(p *store.PlayerState) float64 {
	return u.momentum(p)
}
