package carryover

import (
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/rating"
)

// gamesFactor is 1 above the full-carry threshold and drops in steps below.
func (e *Engine) gamesFactor(games int) float64 {
	full := e.cfg.FullCarryGames
	switch {
	case games >= full:
		return 1.0
	case games >= 8:
		return 0.7 + 0.3*float64(games-8)/float64(full-8)
	case games >= 4:
		return 0.4 + 0.3*float64(games-4)/4
	default:
		return 0.25
	}
}

func (e *Engine) roleFactor(role m.Role) float64 {
	if f, ok := e.cfg.RoleProgression[role]; ok {
		return f
	}
	return 1.0
}

func (e *Engine) eliteFactor(s Summary, mean float64) float64 {
	switch s.Tier {
	case rating.TierLegendary:
		return 0.55
	case rating.TierElite:
		return 0.70
	}
	if s.FinalRating > mean+50 {
		return 0.85
	}
	return 0.95
}

// consistencyFactor rewards a low spread of per-match rating change.
func (e *Engine) consistencyFactor(spread float64) float64 {
	c := e.cfg.Consistency
	switch {
	case spread < c[0]:
		return 1.1
	case spread < c[1]:
		return 1.05
	case spread < c[2]:
		return 0.95
	default:
		return 0.85
	}
}

func momentumFactor(rpg float64) float64 {
	switch {
	case rpg > 10:
		return 1.15
	case rpg > 5:
		return 1.08
	case rpg > 0:
		return 1.02
	case rpg > -5:
		return 0.95
	default:
		return 0.85
	}
}

func (e *Engine) teamFactor(team m.TeamID, ts TeamStrength) float64 {
	r, ok := ts.Ratings[team]
	if !ok {
		return 1.0
	}
	switch {
	case r > ts.Mean+e.cfg.TeamMargin:
		return 1.05
	case r < ts.Mean-e.cfg.TeamMargin:
		return 0.98
	default:
		return 1.0
	}
}

// distanceFactor keeps most of a positive distance and little of a
// negative one.
func distanceFactor(d float64) float64 {
	if d > 0 {
		switch {
		case d > 500:
			return 0.85
		case d > 400:
			return 0.90
		case d > 300:
			return 0.95
		case d > 200:
			return 0.97
		case d > 100:
			return 0.98
		default:
			return 0.99
		}
	}
	d = -d
	switch {
	case d > 400:
		return 0.15
	case d > 300:
		return 0.25
	case d > 200:
		return 0.35
	case d > 100:
		return 0.55
	default:
		return 0.75
	}
}
