// Package repository holds the ranked player-rating leaderboards served by
// the read API.
package repository

import (
	"context"

	"github.com/okian/hbelo/internal/domain/engine"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/types"
)

// Entry represents a leaderboard row.
type Entry = types.Entry

// Filter selects rows for TopN. A nil Filter keeps every row.
type Filter func(Entry) bool

// Store provides read/write access to one league's ranking state.
type Store interface {
	// Replace swaps the whole table for rows, typically the player table of
	// the latest season run.
	Replace(ctx context.Context, rows []engine.PlayerRow) error

	// Rank returns the current rank and rating for a player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, player string) (Entry, error)

	// TopN returns the top-N entries accepted by filter, ordered by rating desc.
	TopN(ctx context.Context, n int, filter Filter) ([]Entry, error)

	// Count returns the number of players tracked in the leaderboard.
	Count(ctx context.Context) int
}

// ByRole keeps rows whose primary role is role.
func ByRole(role m.Role) Filter {
	return func(e Entry) bool { return e.Role == role }
}

// ByTeam keeps rows whose primary team is team.
func ByTeam(team m.TeamID) Filter {
	return func(e Entry) bool { return e.Team == team }
}
