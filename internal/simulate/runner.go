package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/pkg/logger"
)

// Run generates the archive and, when BaseURL is set, verifies the service
// against a local run built with opts.
func Run(ctx context.Context, cfg *Config, opts ...engine.Option) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting simulation",
		logger.Any("leagues", cfg.Leagues),
		logger.Any("seasons", cfg.Seasons),
		logger.Int("teams", cfg.Teams),
		logger.Any("seed", cfg.Seed),
		logger.String("baseURL", cfg.BaseURL))

	seasons, err := Generate(ctx, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("generation failed: %w", err)
	}

	if cfg.BaseURL != "" {
		expected, err := Expect(ctx, seasons, stats, opts...)
		if err != nil {
			return stats, fmt.Errorf("local rating failed: %w", err)
		}
		mismatches, err := Verify(ctx, cfg, expected, stats)
		for _, mm := range mismatches {
			log.Warn(ctx, "leaderboard mismatch",
				logger.String("league", mm.League),
				logger.String("player", mm.Got.Player),
				logger.Float64("served", mm.Got.Rating),
				logger.Float64("expected", mm.Want.Rating),
				logger.String("detail", mm.Detail))
		}
		if err != nil {
			return stats, fmt.Errorf("verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "simulation completed",
		logger.Int("leagues", stats.Leagues),
		logger.Int("seasons", stats.Seasons),
		logger.Int("matches", stats.Matches),
		logger.Int("players", stats.Players),
		logger.Int("compared", stats.Compared),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}
