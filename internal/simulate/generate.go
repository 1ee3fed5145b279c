package simulate

import (
	"context"
	"fmt"

	"github.com/okian/hbelo/internal/adapters/source"
	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/internal/matchgen"
	"github.com/okian/hbelo/pkg/logger"
)

// Generate builds every configured league season. When Root is set the
// records are also written as a YAML archive the service can read.
func Generate(ctx context.Context, cfg *Config, stats *Stats) (map[string][]engine.Season, error) {
	if len(cfg.Leagues) == 0 || len(cfg.Seasons) == 0 {
		return nil, ErrNoLeagues
	}
	out := make(map[string][]engine.Season, len(cfg.Leagues))
	for _, league := range cfg.Leagues {
		g := matchgen.New(league,
			matchgen.WithSeed(cfg.Seed),
			matchgen.WithTeams(cfg.Teams),
			matchgen.WithRounds(cfg.Rounds),
			matchgen.WithEvents(cfg.Events),
		)
		for _, id := range cfg.Seasons {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			recs := g.Season(id)
			if cfg.Root != "" {
				if err := source.WriteYAML(cfg.Root, league, id, recs); err != nil {
					return nil, fmt.Errorf("write %s/%s: %w", league, id, err)
				}
			}
			out[league] = append(out[league], engine.Season{League: league, ID: id, Matches: recs})
			stats.Seasons++
			stats.Matches += len(recs)
		}
		stats.Leagues++
		logger.Get().Info(ctx, "league generated",
			logger.String("league", league),
			logger.Int("seasons", len(cfg.Seasons)),
			logger.String("root", cfg.Root))
	}
	return out, nil
}

// Expect rates seasons locally with opts and returns the closing season of
// each league in leaderboard order.
func Expect(ctx context.Context, seasons map[string][]engine.Season, stats *Stats, opts ...engine.Option) (map[string][]engine.PlayerRow, error) {
	out := make(map[string][]engine.PlayerRow, len(seasons))
	for league, ss := range seasons {
		e, err := engine.New(opts...)
		if err != nil {
			return nil, err
		}
		results, err := e.Run(ctx, ss)
		if err != nil {
			return nil, fmt.Errorf("rate %s: %w", league, err)
		}
		if len(results) == 0 {
			continue
		}
		rows := results[len(results)-1].Players
		sortRows(rows)
		out[league] = rows
		stats.Players += len(rows)
	}
	return out, nil
}
