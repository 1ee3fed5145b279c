package store

import (
	"math"

	"github.com/okian/hbelo/internal/domain/goalkeeper"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/momentum"
)

// PlayerState is the mutable per-season state of one player.
type PlayerState struct {
	Name        string
	Rating      float64
	StartRating float64
	Games       int
	RoleCounts  map[m.Role]int
	TeamCounts  map[m.TeamID]int
	Evidence    goalkeeper.Evidence
	Momentum    *momentum.Window

	// running statistics of per-match net rating change
	deltaN    int
	deltaMean float64
	deltaM2   float64
}

func newPlayer(name string, rating float64, window int) *PlayerState {
	return &PlayerState{
		Name:        name,
		Rating:      rating,
		StartRating: rating,
		RoleCounts:  map[m.Role]int{},
		TeamCounts:  map[m.TeamID]int{},
		Momentum:    momentum.NewWindow(window),
	}
}

// Clone returns a deep copy.
func (p *PlayerState) Clone() *PlayerState {
	c := *p
	c.RoleCounts = make(map[m.Role]int, len(p.RoleCounts))
	for k, v := range p.RoleCounts {
		c.RoleCounts[k] = v
	}
	c.TeamCounts = make(map[m.TeamID]int, len(p.TeamCounts))
	for k, v := range p.TeamCounts {
		c.TeamCounts[k] = v
	}
	c.Momentum = p.Momentum.Clone()
	return &c
}

// RecordMatch counts one played match with its net rating change.
func (p *PlayerState) RecordMatch(net float64) {
	p.Games++
	p.deltaN++
	d := net - p.deltaMean
	p.deltaMean += d / float64(p.deltaN)
	p.deltaM2 += d * (net - p.deltaMean)
}

// Consistency is the standard deviation of per-match net rating change.
// Lower is more consistent.
func (p *PlayerState) Consistency() float64 {
	if p.deltaN < 2 {
		return 0
	}
	return math.Sqrt(p.deltaM2 / float64(p.deltaN))
}

// PrimaryRole returns the most used coded role. Confirmed goalkeepers are
// always goalkeepers; ties break on role code.
func (p *PlayerState) PrimaryRole() m.Role {
	if p.Evidence.Confirmed {
		return m.RoleGoalkeeper
	}
	best, n := m.RoleNone, 0
	for r, c := range p.RoleCounts {
		if r == m.RoleGoalkeeper {
			continue
		}
		if c > n || (c == n && r < best) {
			best, n = r, c
		}
	}
	return best
}

// PrimaryTeam returns the team the player acted for most often.
func (p *PlayerState) PrimaryTeam() m.TeamID {
	var best m.TeamID
	n := 0
	for t, c := range p.TeamCounts {
		if c > n || (c == n && t < best) {
			best, n = t, c
		}
	}
	return best
}

// TeamState is the mutable per-season state of one team.
type TeamState struct {
	ID     m.TeamID
	Rating float64
	Games  int
}
