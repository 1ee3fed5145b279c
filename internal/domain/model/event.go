// Package model contains the domain types shared by the rating pipeline.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// TeamID identifies a team within a league.
type TeamID string

// Score is a running or final score.
type Score struct {
	Home int `yaml:"home" json:"home"`
	Away int `yaml:"away" json:"away"`
}

// Diff returns |home - away|.
func (s Score) Diff() int {
	d := s.Home - s.Away
	if d < 0 {
		return -d
	}
	return d
}

// MatchEvent is one row of a match report.
type MatchEvent struct {
	Time            float64 `yaml:"time" json:"time"`
	Score           Score   `yaml:"score" json:"score"`
	Team            TeamID  `yaml:"team" json:"team"`
	Action          Action  `yaml:"action" json:"action"`
	Role            Role    `yaml:"role,omitempty" json:"role,omitempty"`
	Player          string  `yaml:"player,omitempty" json:"player,omitempty"`
	SecondaryAction Action  `yaml:"secondary_action,omitempty" json:"secondary_action,omitempty"`
	SecondaryPlayer string  `yaml:"secondary_player,omitempty" json:"secondary_player,omitempty"`
	Goalkeeper      string  `yaml:"goalkeeper,omitempty" json:"goalkeeper,omitempty"`
}

// MatchRecord is a complete match as delivered by the extraction layer.
type MatchRecord struct {
	MatchID    string       `yaml:"match_id" json:"match_id"`
	SeasonID   string       `yaml:"season_id" json:"season_id"`
	Home       TeamID       `yaml:"home" json:"home"`
	Away       TeamID       `yaml:"away" json:"away"`
	FinalScore Score        `yaml:"final_score" json:"final_score"`
	Events     []MatchEvent `yaml:"events" json:"events"`
}

// ErrMissingField is returned by Validate for records lacking required data.
var ErrMissingField = errors.New("missing required field")

// ErrInvalidField is returned by Validate for values outside their domain.
var ErrInvalidField = errors.New("invalid field")

// Validate checks the match-level fields.
func (m MatchRecord) Validate() error {
	switch {
	case strings.TrimSpace(m.MatchID) == "":
		return fmt.Errorf("match_id: %w", ErrMissingField)
	case strings.TrimSpace(string(m.Home)) == "":
		return fmt.Errorf("home: %w", ErrMissingField)
	case strings.TrimSpace(string(m.Away)) == "":
		return fmt.Errorf("away: %w", ErrMissingField)
	case m.Home == m.Away:
		return fmt.Errorf("home and away are both %q: %w", m.Home, ErrInvalidField)
	case m.FinalScore.Home < 0 || m.FinalScore.Away < 0:
		return fmt.Errorf("final_score: %w", ErrInvalidField)
	}
	return nil
}

// Validate checks the event-level fields that every event needs.
func (e MatchEvent) Validate() error {
	switch {
	case e.Action == "":
		return fmt.Errorf("action: %w", ErrMissingField)
	case math.IsNaN(e.Time) || math.IsInf(e.Time, 0) || e.Time < 0:
		return fmt.Errorf("time %v: %w", e.Time, ErrInvalidField)
	case e.Score.Home < 0 || e.Score.Away < 0:
		return fmt.Errorf("score: %w", ErrInvalidField)
	}
	return nil
}

// ResolvedAction is an action attributed to one player of a concrete team.
type ResolvedAction struct {
	Player     string
	Team       TeamID
	Action     Action
	Role       Role
	Goalkeeper bool // player appeared in the goalkeeper field
	Time       float64
	Score      Score
}
