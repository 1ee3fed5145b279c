package store

import (
	m "github.com/okian/hbelo/internal/domain/model"
)

// Tx stages changes to a RatingStore. Entities are cloned on first access
// and only become visible in the store on Commit.
type Tx struct {
	s       *RatingStore
	players map[string]*PlayerState
	teams   map[m.TeamID]*TeamState
	done    bool
}

// Player returns the staged state of name, creating it with initial() when
// the player is new to the season.
func (tx *Tx) Player(name string, initial func() float64) *PlayerState {
	if p, ok := tx.players[name]; ok {
		return p
	}
	var p *PlayerState
	if base, ok := tx.s.players[name]; ok {
		p = base.Clone()
	} else {
		p = newPlayer(name, initial(), tx.s.window)
	}
	tx.players[name] = p
	return p
}

// LookupPlayer returns the staged or committed state of name without
// creating it.
func (tx *Tx) LookupPlayer(name string) (*PlayerState, bool) {
	if p, ok := tx.players[name]; ok {
		return p, true
	}
	base, ok := tx.s.players[name]
	if !ok {
		return nil, false
	}
	p := base.Clone()
	tx.players[name] = p
	return p, true
}

// Team returns the staged state of id, creating it at initial.
func (tx *Tx) Team(id m.TeamID, initial float64) *TeamState {
	if t, ok := tx.teams[id]; ok {
		return t
	}
	t := &TeamState{ID: id, Rating: initial}
	if base, ok := tx.s.teams[id]; ok {
		c := *base
		t = &c
	}
	tx.teams[id] = t
	return t
}

// PlayerNames returns the committed player names; staged-only players are
// not included.
func (tx *Tx) PlayerNames() []string {
	out := make([]string, 0, len(tx.s.players))
	for n := range tx.s.players {
		out = append(out, n)
	}
	return out
}

// Commit publishes every staged entity.
func (tx *Tx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	for n, p := range tx.players {
		tx.s.players[n] = p
	}
	for id, t := range tx.teams {
		tx.s.teams[id] = t
	}
	tx.finish()
	return nil
}

// Rollback discards the staged changes. Calling it after Commit is a no-op.
func (tx *Tx) Rollback() {
	if tx.done {
		return
	}
	tx.finish()
}

func (tx *Tx) finish() {
	tx.done = true
	tx.s.open = false
	tx.players = nil
	tx.teams = nil
}
