package rating

import (
	"math"

	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/store"
)

// TeamDelta records a team update for the per-match delta log.
type TeamDelta struct {
	HomeBefore float64
	HomeAfter  float64
	AwayBefore float64
	AwayAfter  float64
	Expected   float64
}

// TeamUpdater applies the post-match outcome adjustment.
type TeamUpdater struct {
	cfg TeamConfig
}

// NewTeamUpdater validates cfg and returns an updater.
func NewTeamUpdater(cfg TeamConfig) (*TeamUpdater, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TeamUpdater{cfg: cfg}, nil
}

// Config returns the updater constants.
func (u *TeamUpdater) Config() TeamConfig { return u.cfg }

// Expected returns the home side's expected score for a rating gap that
// already includes home advantage. The curve is a capped line, not a
// logistic.
func (u *TeamUpdater) Expected(gap float64) float64 {
	switch {
	case gap >= u.cfg.SaturateAbove:
		return 1
	case gap <= u.cfg.SaturateBelow:
		return 0
	default:
		return math.Max(0, math.Min(1, u.cfg.Intercept+u.cfg.Slope*gap))
	}
}

// KFactor picks the magnitude for t by experience tier.
func (u *TeamUpdater) KFactor(t *store.TeamState) float64 {
	switch {
	case t.Games < u.cfg.NewTeamGames:
		return u.cfg.KNew
	case t.Rating >= u.cfg.EliteRating:
		return u.cfg.KElite
	default:
		return u.cfg.KDefault
	}
}

// Apply updates both teams for a finished match.
func (u *TeamUpdater) Apply(home, away *store.TeamState, final m.Score) TeamDelta {
	d := TeamDelta{HomeBefore: home.Rating, AwayBefore: away.Rating}
	d.Expected = u.Expected(home.Rating + u.cfg.HomeAdvantage - away.Rating)

	actual := 0.5
	switch {
	case final.Home > final.Away:
		actual = 1
	case final.Home < final.Away:
		actual = 0
	}

	kHome, kAway := u.KFactor(home), u.KFactor(away)
	home.Rating = u.cfg.Bounds.Clamp(home.Rating + kHome*(actual-d.Expected))
	away.Rating = u.cfg.Bounds.Clamp(away.Rating + kAway*((1-actual)-(1-d.Expected)))
	home.Games++
	away.Games++

	d.HomeAfter, d.AwayAfter = home.Rating, away.Rating
	return d
}
