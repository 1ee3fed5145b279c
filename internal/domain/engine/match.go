package engine

import (
	"context"
	"fmt"

	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/normalize"
	"github.com/okian/hbelo/internal/domain/rating"
	"github.com/okian/hbelo/pkg/logger"
	"github.com/okian/hbelo/pkg/metrics"
)

// matchTally collects what a match did so it can be published only after
// the match commits.
type matchTally struct {
	outcomes    []rating.Outcome
	dropped     map[normalize.Reason]int
	transitions []Transition
}

// applyMatch applies rec inside one store transaction. Any error rolls the
// whole match back and releases its id so a later clean copy can be applied.
func (e *Engine) applyMatch(ctx context.Context, run *seasonRun, rec m.MatchRecord) (err error) {
	if verr := rec.Validate(); verr != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, verr)
	}
	if run.seen.SeenAndRecord(ctx, rec.MatchID) {
		return fmt.Errorf("%w: %s", ErrDuplicateMatch, rec.MatchID)
	}

	tx, err := run.store.Begin()
	if err != nil {
		run.seen.Unrecord(ctx, rec.MatchID)
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			run.seen.Unrecord(ctx, rec.MatchID)
		}
	}()

	tally := matchTally{dropped: map[normalize.Reason]int{}}
	net := map[string]float64{}
	var order []string
	var last m.Score
	counted, resolved := 0, 0

	for i, ev := range rec.Events {
		if ev.Action.IsPhaseMarker() {
			continue
		}
		// A malformed event drops alone and never moves the running score.
		if verr := ev.Validate(); verr != nil {
			tally.dropped[normalize.ReasonMalformedEvent]++
			e.log.Debug(ctx, "event dropped",
				logger.String("match", rec.MatchID),
				logger.Int("event", i),
				logger.Error(verr),
			)
			continue
		}
		if ev.Score.Home < last.Home || ev.Score.Away < last.Away {
			return fmt.Errorf("%w: event %d score %d-%d after %d-%d",
				ErrCorruptMatch, i, ev.Score.Home, ev.Score.Away, last.Home, last.Away)
		}
		last = ev.Score
		counted++

		res := e.normalizer.Normalize(ctx, ev, rec.Home, rec.Away)
		for _, n := range res.Notes {
			tally.dropped[n.Reason]++
		}
		for _, a := range res.Actions {
			resolved++
			p := tx.Player(a.Player, func() float64 { return e.initialRating(run, a) })
			before := p.Rating
			if e.classifier.Observe(ctx, &p.Evidence, a) {
				tally.transitions = append(tally.transitions, Transition{
					Player: a.Player, Kind: "promoted", Before: before, After: before, InMatch: rec.MatchID,
				})
			}
			out, aerr := e.players.Apply(p, tx.Team(a.Team, e.teamCfg.Default), a, rec.Home, rec.Away)
			if aerr != nil {
				return fmt.Errorf("match %s: %w", rec.MatchID, aerr)
			}
			if _, ok := net[a.Player]; !ok {
				order = append(order, a.Player)
			}
			net[a.Player] += out.Delta
			tally.outcomes = append(tally.outcomes, out)
		}
	}

	if counted > 0 && resolved == 0 && tally.dropped[normalize.ReasonUnresolvableTeam] > 0 {
		return fmt.Errorf("%w: %s vs %s", ErrUnresolvableTeam, rec.Home, rec.Away)
	}
	if last.Home > rec.FinalScore.Home || last.Away > rec.FinalScore.Away {
		return fmt.Errorf("%w: final score %d-%d below running score %d-%d",
			ErrCorruptMatch, rec.FinalScore.Home, rec.FinalScore.Away, last.Home, last.Away)
	}

	for _, name := range order {
		if p, ok := tx.LookupPlayer(name); ok {
			p.RecordMatch(net[name])
		}
	}

	home := tx.Team(rec.Home, e.teamCfg.Default)
	away := tx.Team(rec.Away, e.teamCfg.Default)
	d := e.teams.Apply(home, away, rec.FinalScore)

	if err = tx.Commit(); err != nil {
		return err
	}

	run.result.Deltas = append(run.result.Deltas, MatchDelta{
		MatchID:    rec.MatchID,
		Home:       rec.Home,
		Away:       rec.Away,
		HomeBefore: d.HomeBefore,
		HomeAfter:  d.HomeAfter,
		AwayBefore: d.AwayBefore,
		AwayAfter:  d.AwayAfter,
		Expected:   d.Expected,
	})
	run.result.Transitions = append(run.result.Transitions, tally.transitions...)
	tally.publish(run.result)
	return nil
}

func (t matchTally) publish(res *SeasonResult) {
	for reason, n := range t.dropped {
		res.Dropped[reason] += n
		for i := 0; i < n; i++ {
			metrics.RecordActionDropped(string(reason))
		}
	}
	for _, out := range t.outcomes {
		if !out.Applied {
			metrics.RecordActionDropped("zero_weight")
			continue
		}
		metrics.RecordActionApplied()
		metrics.RecordContextMultiplier(out.Context)
		kind := "field"
		switch {
		case out.Conceding:
			kind = "conceding"
		case out.Role == m.RoleGoalkeeper:
			kind = "goalkeeper"
		}
		metrics.RecordRatingDelta(kind, out.Delta)
	}
	for _, tr := range t.transitions {
		metrics.RecordGoalkeeperTransition(tr.Kind)
	}
}
