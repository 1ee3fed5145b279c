// Package carryover computes next-season starting ratings with asymmetric
// regression toward the league mean.
package carryover

import (
	"hash/fnv"
	"math"
	"math/rand"
	"sort"

	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/rating"
)

// Summary is the archived end-of-season record of one player. It is the
// only input carried into the next season.
type Summary struct {
	Player        string      `json:"player"`
	Team          m.TeamID    `json:"team"`
	Role          m.Role      `json:"role"`
	Tier          rating.Tier `json:"tier"`
	StartRating   float64     `json:"start_rating"`
	FinalRating   float64     `json:"final_rating"`
	Games         int         `json:"games"`
	RatingPerGame float64     `json:"rating_per_game"`
	Consistency   float64     `json:"consistency"`
	Goalkeeper    bool        `json:"goalkeeper"`
}

// LeagueStats aggregates final ratings of a season.
type LeagueStats struct {
	Players int     `json:"players"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Std     float64 `json:"std"`
}

// Stats computes league aggregates over the summaries.
func Stats(summaries []Summary) LeagueStats {
	n := len(summaries)
	if n == 0 {
		return LeagueStats{}
	}
	vals := make([]float64, n)
	sum := 0.0
	for i, s := range summaries {
		vals[i] = s.FinalRating
		sum += s.FinalRating
	}
	sort.Float64s(vals)
	mean := sum / float64(n)
	ss := 0.0
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	median := vals[n/2]
	if n%2 == 0 {
		median = (vals[n/2-1] + vals[n/2]) / 2
	}
	return LeagueStats{Players: n, Mean: mean, Median: median, Std: math.Sqrt(ss / float64(n))}
}

// TeamStrength maps teams to their final rating together with the team mean.
type TeamStrength struct {
	Ratings map[m.TeamID]float64
	Mean    float64
}

// NewTeamStrength builds a TeamStrength from final team ratings.
func NewTeamStrength(ratings map[m.TeamID]float64) TeamStrength {
	ts := TeamStrength{Ratings: ratings}
	if len(ratings) == 0 {
		return ts
	}
	sum := 0.0
	for _, r := range ratings {
		sum += r
	}
	ts.Mean = sum / float64(len(ratings))
	return ts
}

// Engine computes starting ratings. It is stateless apart from its config.
type Engine struct {
	cfg Config
}

// New validates cfg and returns an Engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine constants.
func (e *Engine) Config() Config { return e.cfg }

// Default returns the starting rating for a player with no history.
func (e *Engine) Default(role m.Role) float64 {
	return e.cfg.Bounds.Clamp(e.cfg.Base + e.cfg.RoleStart[role])
}

// Carry computes the starting map for every summarized player.
func (e *Engine) Carry(summaries []Summary, league LeagueStats, teams TeamStrength) map[string]float64 {
	out := make(map[string]float64, len(summaries))
	for _, s := range summaries {
		out[s.Player] = e.StartRating(s, league, teams)
	}
	return out
}

// StartRating computes one player's next starting rating. The result only
// depends on its arguments.
func (e *Engine) StartRating(s Summary, league LeagueStats, teams TeamStrength) float64 {
	mean := league.Mean
	if league.Players == 0 {
		mean = e.cfg.Base
	}
	distance := s.FinalRating - mean

	factor := e.gamesFactor(s.Games) *
		e.roleFactor(s.Role) *
		e.eliteFactor(s, mean) *
		e.consistencyFactor(s.Consistency) *
		momentumFactor(s.RatingPerGame) *
		e.teamFactor(s.Team, teams) *
		distanceFactor(distance)

	start := mean + distance*factor
	start += e.bonus(s)

	lo, hi := e.cfg.Base+e.cfg.MinPenalty, e.cfg.Base+e.cfg.MaxBonus
	start = math.Max(lo, math.Min(hi, start))
	start += e.jitter(s.Player)
	return e.cfg.Bounds.Clamp(math.Round(start*10) / 10)
}

func (e *Engine) bonus(s Summary) float64 {
	switch {
	case s.RatingPerGame > 8 && s.Games >= e.cfg.FullCarryGames:
		return math.Min(120, (s.RatingPerGame-8)*8)
	case s.RatingPerGame > 5 && s.Games >= 8:
		return math.Min(60, (s.RatingPerGame-5)*6)
	default:
		return 0
	}
}

// jitter is a small offset seeded by the player's name.
func (e *Engine) jitter(player string) float64 {
	if e.cfg.Jitter == 0 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(player))
	r := rand.New(rand.NewSource(int64(h.Sum64()))) //nolint:gosec // deterministic per player
	return (r.Float64()*2 - 1) * e.cfg.Jitter
}
