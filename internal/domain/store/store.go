// Package store owns the rating maps of one season run.
package store

import (
	"sort"

	m "github.com/okian/hbelo/internal/domain/model"
)

// RatingStore holds every PlayerState and TeamState of a season. It is not
// safe for concurrent use; one engine owns it for the whole run and mutates
// it only through transactions.
type RatingStore struct {
	players map[string]*PlayerState
	teams   map[m.TeamID]*TeamState
	window  int
	open    bool
}

// New returns an empty store whose players keep momentumCapacity samples.
func New(momentumCapacity int) *RatingStore {
	return &RatingStore{
		players: map[string]*PlayerState{},
		teams:   map[m.TeamID]*TeamState{},
		window:  momentumCapacity,
	}
}

// Len returns the number of players and teams.
func (s *RatingStore) Len() (players, teams int) {
	return len(s.players), len(s.teams)
}

// Begin starts a transaction. Only one may be open at a time.
func (s *RatingStore) Begin() (*Tx, error) {
	if s.open {
		return nil, ErrTxOpen
	}
	s.open = true
	return &Tx{
		s:       s,
		players: map[string]*PlayerState{},
		teams:   map[m.TeamID]*TeamState{},
	}, nil
}

// Snapshot is a deep, sorted copy of the store.
type Snapshot struct {
	Players []*PlayerState
	Teams   []TeamState
}

// Snapshot exports the committed state.
func (s *RatingStore) Snapshot() Snapshot {
	out := Snapshot{
		Players: make([]*PlayerState, 0, len(s.players)),
		Teams:   make([]TeamState, 0, len(s.teams)),
	}
	for _, p := range s.players {
		out.Players = append(out.Players, p.Clone())
	}
	for _, t := range s.teams {
		out.Teams = append(out.Teams, *t)
	}
	sort.Slice(out.Players, func(i, j int) bool { return out.Players[i].Name < out.Players[j].Name })
	sort.Slice(out.Teams, func(i, j int) bool { return out.Teams[i].ID < out.Teams[j].ID })
	return out
}
