package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/okian/hbelo/internal/config"
	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/internal/simulate"
	"github.com/okian/hbelo/pkg/logger"
)

// Default configuration constants.
const (
	defaultTeams   = 8
	defaultRounds  = 1
	defaultEvents  = 110
	defaultTopN    = 50
	defaultTimeout = 30 * time.Second
	defaultWait    = 2 * time.Minute
	runTimeout     = 10 * time.Minute
)

func main() {
	var (
		out     = flag.String("out", "", "Archive root to write YAML seasons to (empty skips writing)")
		leagues = flag.String("leagues", "herreliga", "Comma-separated leagues to generate")
		seasons = flag.String("seasons", "2022-2023,2023-2024,2024-2025", "Comma-separated season ids, oldest first")
		teams   = flag.Int("teams", defaultTeams, "Teams per league")
		rounds  = flag.Int("rounds", defaultRounds, "Home-and-away rounds per season")
		events  = flag.Int("events", defaultEvents, "Events per match")
		seed    = flag.Int64("seed", 1, "Generator seed")
		baseURL = flag.String("url", "", "Base URL of a running service to verify, e.g. http://localhost:9080")
		topN    = flag.Int("top", defaultTopN, "Leaderboard rows compared per league")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait    = flag.Duration("wait", defaultWait, "How long to wait for the service to serve ratings")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	cfg := &simulate.Config{
		Root:    *out,
		Leagues: splitList(*leagues),
		Seasons: splitList(*seasons),
		Teams:   *teams,
		Rounds:  *rounds,
		Events:  *events,
		Seed:    *seed,
		BaseURL: strings.TrimRight(*baseURL, "/"),
		TopN:    *topN,
		Timeout: *timeout,
		Wait:    *wait,
	}
	if err := run(cfg, *verbose); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(cfg *simulate.Config, verbose bool) error {
	if err := logger.Init(); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	opts, err := engineOptions(ctx)
	if err != nil {
		return err
	}
	_, err = simulate.Run(ctx, cfg, opts...)
	return err
}

// engineOptions uses the service configuration when HBELO_CONFIG is set so
// verification rates with the same weights as the service.
func engineOptions(ctx context.Context) ([]engine.Option, error) {
	if os.Getenv(config.EnvConfigFile) == "" {
		return nil, nil
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.EngineOptions(logger.Named("engine"))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
