package engine

import (
	"github.com/okian/hbelo/internal/domain/carryover"
	"github.com/okian/hbelo/internal/domain/goalkeeper"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/normalize"
	"github.com/okian/hbelo/internal/domain/rating"
)

// Season is one league season as delivered by a source. Matches are applied
// in slice order.
type Season struct {
	League  string
	ID      string
	Matches []m.MatchRecord
	// Skips holds records the source could not decode.
	Skips []Skip
}

// PlayerRow is one row of the player rating table.
type PlayerRow struct {
	Player              string      `json:"player_name"`
	Rating              float64     `json:"rating"`
	Games               int         `json:"games_played"`
	PrimaryRole         m.Role      `json:"primary_role"`
	EliteTier           rating.Tier `json:"elite_tier"`
	ConfirmedGoalkeeper bool        `json:"is_confirmed_goalkeeper"`
	Momentum            float64     `json:"momentum_value"`
	Team                m.TeamID    `json:"team_id"`
}

// TeamRow is one row of the team rating table.
type TeamRow struct {
	Team   m.TeamID `json:"team_id"`
	Rating float64  `json:"rating"`
	Games  int      `json:"games_played"`
}

// MatchDelta is one entry of the per-match team delta log.
type MatchDelta struct {
	MatchID    string   `json:"match_id"`
	Home       m.TeamID `json:"home_team_id"`
	Away       m.TeamID `json:"away_team_id"`
	HomeBefore float64  `json:"home_rating_before"`
	HomeAfter  float64  `json:"home_rating_after"`
	AwayBefore float64  `json:"away_rating_before"`
	AwayAfter  float64  `json:"away_rating_after"`
	Expected   float64  `json:"home_expected"`
}

// Transition records a goalkeeper status change.
type Transition struct {
	Player  string             `json:"player_name"`
	Verdict goalkeeper.Verdict `json:"-"`
	Kind    string             `json:"kind"`
	Before  float64            `json:"rating_before"`
	After   float64            `json:"rating_after"`
	InMatch string             `json:"match_id,omitempty"`
}

// SeasonResult is everything one season run produces.
type SeasonResult struct {
	League    string
	Season    string
	Registry  string
	Processed int

	Players []PlayerRow
	Teams   []TeamRow
	Deltas  []MatchDelta

	Summaries []carryover.Summary
	Stats     carryover.LeagueStats
	// NextStart is the starting-rating map for the following season.
	NextStart map[string]float64

	Skips       []Skip
	Transitions []Transition
	// Dropped counts normalizer notes of applied matches by reason.
	Dropped map[normalize.Reason]int
}

// Player returns the row for name.
func (r *SeasonResult) Player(name string) (PlayerRow, bool) {
	for _, p := range r.Players {
		if p.Player == name {
			return p, true
		}
	}
	return PlayerRow{}, false
}

// Team returns the row for id.
func (r *SeasonResult) Team(id m.TeamID) (TeamRow, bool) {
	for _, t := range r.Teams {
		if t.Team == id {
			return t, true
		}
	}
	return TeamRow{}, false
}
