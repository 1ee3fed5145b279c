// Package normalize turns raw match events into player-attributed actions.
package normalize

import (
	"context"
	"strings"

	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/pkg/logger"
)

// Reason classifies a data-quality note.
type Reason string

// Drop reasons.
const (
	ReasonMalformedEvent   Reason = "malformed_event"
	ReasonUnresolvableTeam Reason = "unresolvable_team"
	ReasonIgnoredSecondary Reason = "ignored_secondary"
	ReasonSelfGoalkeeper   Reason = "goalkeeper_is_actor"
)

// Note records something dropped while normalizing one event.
type Note struct {
	Reason Reason
	Detail string
}

// Result is the outcome for one event. Actions keeps the order primary,
// secondary, goalkeeper.
type Result struct {
	Actions []m.ResolvedAction
	Notes   []Note
}

// Normalizer resolves events against the two teams of a match. It is
// stateless and safe for concurrent use.
type Normalizer struct {
	log logger.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for debug notes.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// New returns a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{log: logger.Nop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type candidate struct {
	player     string
	team       m.TeamRef
	action     m.Action
	role       m.Role
	goalkeeper bool
}

// Normalize resolves ev into zero or more actions. It never fails; anything
// it cannot attribute is reported as a Note.
func (n *Normalizer) Normalize(ctx context.Context, ev m.MatchEvent, home, away m.TeamID) Result {
	var res Result
	if err := ev.Validate(); err != nil {
		res.Notes = append(res.Notes, Note{Reason: ReasonMalformedEvent, Detail: err.Error()})
		n.debug(ctx, res.Notes[0], ev)
		return res
	}

	acting := m.TeamID(strings.TrimSpace(string(ev.Team)))
	if acting != home && acting != away {
		note := Note{Reason: ReasonUnresolvableTeam, Detail: string(ev.Team)}
		res.Notes = append(res.Notes, note)
		n.debug(ctx, note, ev)
		return res
	}

	cands := make([]candidate, 0, 3)
	primary := cleanName(ev.Player)
	if primary != "" {
		cands = append(cands, candidate{player: primary, team: m.Resolved(acting), action: ev.Action, role: ev.Role})
	}

	if secondary := cleanName(ev.SecondaryPlayer); secondary != "" && ev.SecondaryAction != "" {
		info, _ := ev.SecondaryAction.Info()
		switch info.Secondary {
		case m.SecondaryCooperative:
			cands = append(cands, candidate{player: secondary, team: m.Resolved(acting), action: ev.SecondaryAction})
		case m.SecondaryAdversarial:
			cands = append(cands, candidate{player: secondary, team: m.OppositeOf(acting), action: ev.SecondaryAction})
		default:
			res.Notes = append(res.Notes, Note{Reason: ReasonIgnoredSecondary, Detail: string(ev.SecondaryAction)})
		}
	}

	// The goalkeeper field always names the defending side's keeper and is
	// scored on the primary action.
	if gk := cleanName(ev.Goalkeeper); gk != "" {
		if gk == primary {
			res.Notes = append(res.Notes, Note{Reason: ReasonSelfGoalkeeper, Detail: gk})
		} else {
			cands = append(cands, candidate{player: gk, team: m.OppositeOf(acting), action: ev.Action, role: m.RoleGoalkeeper, goalkeeper: true})
		}
	}

	res.Actions = make([]m.ResolvedAction, 0, len(cands))
	for _, c := range cands {
		team, ok := c.team.Resolve(home, away)
		if !ok {
			res.Notes = append(res.Notes, Note{Reason: ReasonUnresolvableTeam, Detail: c.player})
			continue
		}
		res.Actions = append(res.Actions, m.ResolvedAction{
			Player:     c.player,
			Team:       team,
			Action:     c.action,
			Role:       c.role,
			Goalkeeper: c.goalkeeper,
			Time:       ev.Time,
			Score:      ev.Score,
		})
	}
	return res
}

func (n *Normalizer) debug(ctx context.Context, note Note, ev m.MatchEvent) {
	n.log.Debug(ctx, "event dropped",
		logger.String("reason", string(note.Reason)),
		logger.String("detail", note.Detail),
		logger.String("action", string(ev.Action)),
		logger.Float64("time", ev.Time))
}

// cleanName trims a player name and maps extraction placeholders to "".
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "none", "null", "0":
		return ""
	}
	return s
}
