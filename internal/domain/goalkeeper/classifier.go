// Package goalkeeper infers which players are goalkeepers from how often
// they appear in the goalkeeper field and how often they save.
package goalkeeper

import (
	"context"
	"strings"

	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/pkg/logger"
)

// Thresholds must all be met at the same evaluation for a player to count
// as a goalkeeper.
type Thresholds struct {
	MinOccurrences int
	MinSaves       int
	MinRatio       float64
}

// Met reports whether e satisfies every threshold. Bounds are inclusive:
// exactly reaching a minimum counts.
func (t Thresholds) Met(e Evidence) bool {
	return e.Occurrences >= t.MinOccurrences &&
		e.Saves >= t.MinSaves &&
		e.Ratio() >= t.MinRatio
}

// Evidence is the per-player counter set.
type Evidence struct {
	Occurrences  int // appearances in the goalkeeper field
	Saves        int // saves while in the goalkeeper field
	RoleActions  int // own actions coded with the goalkeeper role
	TotalActions int
	Confirmed    bool
}

// Ratio is (occurrences + role actions) / total actions.
func (e Evidence) Ratio() float64 {
	if e.TotalActions == 0 {
		return 0
	}
	return float64(e.Occurrences+e.RoleActions) / float64(e.TotalActions)
}

// Verdict is the outcome of the season-end pass for one player.
type Verdict int

// Verdicts.
const (
	Unchanged Verdict = iota // never confirmed and still not
	Kept                     // confirmed and still passing
	Promoted                 // passes only on full-season totals
	Demoted                  // confirmed in season, fails the stricter pass
)

func (v Verdict) String() string {
	switch v {
	case Kept:
		return "kept"
	case Promoted:
		return "promoted"
	case Demoted:
		return "demoted"
	default:
		return "unchanged"
	}
}

// Classifier holds the thresholds and the field-player override list. It
// keeps no per-player state; evidence lives with the player.
type Classifier struct {
	inSeason  Thresholds
	seasonEnd Thresholds
	overrides map[string]struct{}
	blend     float64
	baseline  float64
	log       logger.Logger
}

// New returns a Classifier with the default thresholds.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		inSeason:  Thresholds{MinOccurrences: defaultInSeasonOccurrences, MinSaves: defaultInSeasonSaves, MinRatio: defaultInSeasonRatio},
		seasonEnd: Thresholds{MinOccurrences: defaultSeasonEndOccurrences, MinSaves: defaultSeasonEndSaves, MinRatio: defaultSeasonEndRatio},
		overrides: map[string]struct{}{},
		blend:     defaultDemotionBlend,
		baseline:  defaultFieldBaseline,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Overridden reports whether player is forced to stay a field player.
func (c *Classifier) Overridden(player string) bool {
	_, ok := c.overrides[normalizeName(player)]
	return ok
}

// Observe folds one resolved action into the player's evidence and returns
// true when it promotes the player. Confirmation is never revoked here.
func (c *Classifier) Observe(ctx context.Context, ev *Evidence, a m.ResolvedAction) bool {
	ev.TotalActions++
	switch {
	case a.Goalkeeper:
		ev.Occurrences++
		if a.Action.IsSave() {
			ev.Saves++
		}
	case a.Role == m.RoleGoalkeeper:
		ev.RoleActions++
	}

	if ev.Confirmed || c.Overridden(a.Player) || !c.inSeason.Met(*ev) {
		return false
	}
	ev.Confirmed = true
	c.log.Info(ctx, "goalkeeper confirmed",
		logger.String("player", a.Player),
		logger.Int("occurrences", ev.Occurrences),
		logger.Int("saves", ev.Saves),
		logger.Float64("ratio", ev.Ratio()))
	return true
}

// Revalidate applies the season-end thresholds to the full-season totals.
func (c *Classifier) Revalidate(player string, ev Evidence) Verdict {
	passes := !c.Overridden(player) && c.seasonEnd.Met(ev)
	switch {
	case ev.Confirmed && passes:
		return Kept
	case ev.Confirmed:
		return Demoted
	case passes:
		return Promoted
	default:
		return Unchanged
	}
}

// CorrectRating moves a demoted player's rating part of the way toward the
// field-player baseline. This approximates, and does not replay, the season
// under the corrected role.
func (c *Classifier) CorrectRating(rating float64) float64 {
	return rating + c.blend*(c.baseline-rating)
}

// EffectiveRole is the role an action is scored under: confirmed
// goalkeepers always act as goalkeepers, coded outfield roles are kept and
// anything else falls back to fallback.
func EffectiveRole(ev Evidence, a m.ResolvedAction, fallback m.Role) m.Role {
	if a.Goalkeeper || ev.Confirmed {
		return m.RoleGoalkeeper
	}
	if a.Role.IsPure() {
		return a.Role
	}
	return fallback
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
