package engine

import (
	"context"
	"sort"

	"github.com/okian/hbelo/internal/domain/carryover"
	"github.com/okian/hbelo/internal/domain/goalkeeper"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/pkg/logger"
	"github.com/okian/hbelo/pkg/metrics"
)

// finalize runs the season-end goalkeeper pass and builds the output tables.
// It runs exactly once per season, after the last match.
func (e *Engine) finalize(ctx context.Context, run *seasonRun) error {
	tx, err := run.store.Begin()
	if err != nil {
		return err
	}
	names := tx.PlayerNames()
	sort.Strings(names)
	for _, name := range names {
		p, _ := tx.LookupPlayer(name)
		before := p.Rating
		v := e.classifier.Revalidate(name, p.Evidence)
		switch v {
		case goalkeeper.Demoted:
			p.Evidence.Confirmed = false
			p.Rating = e.playerCfg.Bounds.Clamp(e.classifier.CorrectRating(p.Rating))
		case goalkeeper.Promoted:
			p.Evidence.Confirmed = true
		default:
			continue
		}
		run.result.Transitions = append(run.result.Transitions, Transition{
			Player: name, Verdict: v, Kind: v.String(), Before: before, After: p.Rating,
		})
		metrics.RecordGoalkeeperTransition(v.String())
		e.log.Info(ctx, "goalkeeper revalidated",
			logger.String("player", name),
			logger.String("verdict", v.String()),
			logger.Float64("before", before),
			logger.Float64("after", p.Rating))
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	snap := run.store.Snapshot()
	res := run.result

	res.Teams = make([]TeamRow, 0, len(snap.Teams))
	teamRatings := make(map[m.TeamID]float64, len(snap.Teams))
	for _, t := range snap.Teams {
		res.Teams = append(res.Teams, TeamRow{Team: t.ID, Rating: t.Rating, Games: t.Games})
		teamRatings[t.ID] = t.Rating
	}

	res.Players = make([]PlayerRow, 0, len(snap.Players))
	res.Summaries = make([]carryover.Summary, 0, len(snap.Players))
	for _, p := range snap.Players {
		row := PlayerRow{
			Player:              p.Name,
			Rating:              p.Rating,
			Games:               p.Games,
			PrimaryRole:         p.PrimaryRole(),
			EliteTier:           e.playerCfg.Tiers.Of(p.Rating),
			ConfirmedGoalkeeper: p.Evidence.Confirmed,
			Momentum:            e.players.MomentumValue(p),
			Team:                p.PrimaryTeam(),
		}
		res.Players = append(res.Players, row)

		perGame := 0.0
		if p.Games > 0 {
			perGame = (p.Rating - p.StartRating) / float64(p.Games)
		}
		res.Summaries = append(res.Summaries, carryover.Summary{
			Player:        p.Name,
			Team:          row.Team,
			Role:          row.PrimaryRole,
			Tier:          row.EliteTier,
			StartRating:   p.StartRating,
			FinalRating:   p.Rating,
			Games:         p.Games,
			RatingPerGame: perGame,
			Consistency:   p.Consistency(),
			Goalkeeper:    row.ConfirmedGoalkeeper,
		})
	}

	res.Stats = carryover.Stats(res.Summaries)
	res.NextStart = e.carry.Carry(res.Summaries, res.Stats, carryover.NewTeamStrength(teamRatings))
	return nil
}
