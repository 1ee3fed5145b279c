// Package types contains the read models shared by the service and the API.
package types

import (
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/rating"
)

// Entry represents a leaderboard entry. Players with equal ratings share a
// rank.
type Entry struct {
	Rank       int      `json:"rank"`
	Player     string   `json:"player_name"`
	Rating     float64  `json:"rating"`
	Games      int      `json:"games_played"`
	Role       m.Role   `json:"primary_role"`
	Team       m.TeamID `json:"team_id"`
	Goalkeeper bool     `json:"is_confirmed_goalkeeper"`
}

// PlayerDetail is a leaderboard entry plus the player's per-season view.
type PlayerDetail struct {
	Entry
	// Position is the 0-based index in rating order, ignoring ties.
	Position  int            `json:"position"`
	Momentum  float64        `json:"momentum_value"`
	EliteTier rating.Tier    `json:"elite_tier,omitempty"`
	History   []SeasonRating `json:"history,omitempty"`
}

// SeasonRating is a player's closing rating of one season.
type SeasonRating struct {
	Season string  `json:"season"`
	Rating float64 `json:"rating"`
	Games  int     `json:"games_played"`
}
