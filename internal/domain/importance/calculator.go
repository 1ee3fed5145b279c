// Package importance computes how much a single action mattered given the
// match clock, the score and the momentum of the game.
package importance

import (
	"fmt"
	"math"

	m "github.com/okian/hbelo/internal/domain/model"
)

// Default range of the combined multiplier.
const (
	DefaultMin = 0.4
	DefaultMax = 5.0
)

// Weights combines the five sub-scores. They must sum to 1.
type Weights struct {
	Timing         float64
	Score          float64
	Momentum       float64
	ActionClass    float64
	GoalkeeperSave float64
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{Timing: 0.30, Score: 0.30, Momentum: 0.25, ActionClass: 0.10, GoalkeeperSave: 0.05}
}

func (w Weights) sum() float64 {
	return w.Timing + w.Score + w.Momentum + w.ActionClass + w.GoalkeeperSave
}

// Input is everything the calculator looks at.
type Input struct {
	Action m.Action
	Time   float64
	Score  m.Score
	Team   m.TeamID
	Home   m.TeamID
	Away   m.TeamID
}

// Breakdown exposes the sub-scores behind a multiplier.
type Breakdown struct {
	Timing         float64
	Score          float64
	Momentum       Momentum
	ActionClass    float64
	GoalkeeperSave float64
	Multiplier     float64
}

// Calculator is a pure function object; it holds only configuration.
type Calculator struct {
	weights  Weights
	min, max float64
}

// New returns a Calculator. Weights that do not sum to 1 or an empty range
// are rejected.
func New(w Weights, lo, hi float64) (*Calculator, error) {
	if math.Abs(w.sum()-1) > 1e-9 {
		return nil, fmt.Errorf("%w: context weights sum to %.4f", ErrInvalidWeights, w.sum())
	}
	if w.Timing < 0 || w.Score < 0 || w.Momentum < 0 || w.ActionClass < 0 || w.GoalkeeperSave < 0 {
		return nil, fmt.Errorf("%w: negative context weight", ErrInvalidWeights)
	}
	if !(lo > 0 && lo < hi) {
		return nil, fmt.Errorf("%w: range [%v, %v]", ErrInvalidRange, lo, hi)
	}
	return &Calculator{weights: w, min: lo, max: hi}, nil
}

// Default returns a Calculator with the standard weights and range.
func Default() *Calculator {
	c, err := New(DefaultWeights(), DefaultMin, DefaultMax)
	if err != nil {
		panic(err)
	}
	return c
}

// Bounds returns the clamp range.
func (c *Calculator) Bounds() (lo, hi float64) { return c.min, c.max }

// Multiplier returns the clamped context multiplier for in.
func (c *Calculator) Multiplier(in Input) float64 {
	return c.Evaluate(in).Multiplier
}

// Evaluate returns the multiplier together with its sub-scores.
func (c *Calculator) Evaluate(in Input) Breakdown {
	diff := in.Score.Diff()
	b := Breakdown{
		Timing:      timing(in.Time),
		Score:       proximity(diff),
		Momentum:    detectMomentum(in),
		ActionClass: classScale(in.Action),
	}
	b.GoalkeeperSave = criticalSave(in.Action, b.Timing, diff)

	v := b.Timing*c.weights.Timing +
		b.Score*c.weights.Score +
		b.Momentum.Max()*c.weights.Momentum +
		b.ActionClass*c.weights.ActionClass +
		b.GoalkeeperSave*c.weights.GoalkeeperSave
	b.Multiplier = math.Max(c.min, math.Min(c.max, v))
	return b
}

// timing peaks in the last minutes of each half.
func timing(t float64) float64 {
	switch {
	case t >= 58:
		return 3.0
	case t >= 55:
		return 2.4
	case t >= 50:
		return 1.8
	case t >= 28 && t <= 30:
		return 1.6
	case t >= 25 && t < 28:
		return 1.4
	case t >= 45:
		return 1.5
	case t >= 40:
		return 1.2
	default:
		return 1.0
	}
}

// proximity peaks at a tie.
func proximity(diff int) float64 {
	switch {
	case diff == 0:
		return 2.2
	case diff == 1:
		return 1.9
	case diff == 2:
		return 1.6
	case diff <= 4:
		return 1.3
	case diff <= 6:
		return 1.1
	default:
		return 0.8
	}
}

func classScale(a m.Action) float64 {
	info, _ := a.Info()
	switch info.Class {
	case m.ClassPositive:
		return 1.0
	case m.ClassNegative:
		return 1.2
	default:
		return 0.9
	}
}

func criticalSave(a m.Action, timing float64, diff int) float64 {
	if !a.IsSave() {
		return 1.0
	}
	switch {
	case timing >= 2.0 && diff <= 1:
		return 1.8
	case timing >= 1.8 && diff <= 2:
		return 1.5
	case timing >= 1.5 && diff <= 1:
		return 1.3
	default:
		return 1.0
	}
}
