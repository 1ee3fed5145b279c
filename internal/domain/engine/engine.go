// Package engine runs the rating pipeline over the matches of a season and
// produces the rating tables and the next season's starting ratings.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/hbelo/internal/domain/carryover"
	"github.com/okian/hbelo/internal/domain/dedupe"
	"github.com/okian/hbelo/internal/domain/goalkeeper"
	"github.com/okian/hbelo/internal/domain/importance"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/normalize"
	"github.com/okian/hbelo/internal/domain/rating"
	"github.com/okian/hbelo/internal/domain/store"
	"github.com/okian/hbelo/internal/domain/weights"
	"github.com/okian/hbelo/pkg/logger"
	"github.com/okian/hbelo/pkg/metrics"
)

// Engine owns one rating store per season run. Runs on the same Engine are
// serialized; independent leagues need independent engines to run in
// parallel.
type Engine struct {
	mu sync.Mutex

	registry   *weights.Registry
	calc       *importance.Calculator
	classifier *goalkeeper.Classifier
	normalizer *normalize.Normalizer
	players    *rating.PlayerUpdater
	teams      *rating.TeamUpdater
	carry      *carryover.Engine

	playerCfg  rating.PlayerConfig
	teamCfg    rating.TeamConfig
	carryCfg   carryover.Config
	dedupeSize int

	log logger.Logger
}

// New constructs an Engine. Invalid constants are reported here, before any
// season is touched.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		registry:  weights.Default(),
		calc:      importance.Default(),
		playerCfg: rating.DefaultPlayerConfig(),
		teamCfg:   rating.DefaultTeamConfig(),
		carryCfg:  carryover.DefaultConfig(),
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.classifier == nil {
		e.classifier = goalkeeper.New(goalkeeper.WithLogger(e.log.Named("goalkeeper")))
	}
	e.normalizer = normalize.New(normalize.WithLogger(e.log.Named("normalize")))

	var err error
	if e.players, err = rating.NewPlayerUpdater(e.playerCfg, e.registry, e.calc); err != nil {
		return nil, fmt.Errorf("player updater: %w", err)
	}
	if e.teams, err = rating.NewTeamUpdater(e.teamCfg); err != nil {
		return nil, fmt.Errorf("team updater: %w", err)
	}
	if e.carry, err = carryover.New(e.carryCfg); err != nil {
		return nil, fmt.Errorf("carryover: %w", err)
	}
	return e, nil
}

// Registry returns the weight registry in use.
func (e *Engine) Registry() *weights.Registry { return e.registry }

// Run processes the seasons of one league in order, feeding each season's
// carryover map into the next. Cancellation is checked between seasons.
func (e *Engine) Run(ctx context.Context, seasons []Season) ([]*SeasonResult, error) {
	for _, s := range seasons {
		if s.League != seasons[0].League {
			return nil, fmt.Errorf("%w: %q and %q", ErrMixedLeagues, seasons[0].League, s.League)
		}
	}
	out := make([]*SeasonResult, 0, len(seasons))
	var starting map[string]float64
	for _, s := range seasons {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := e.RunSeason(ctx, s, starting)
		if err != nil {
			return out, fmt.Errorf("season %s/%s: %w", s.League, s.ID, err)
		}
		out = append(out, res)
		starting = res.NextStart
	}
	return out, nil
}

// RunSeason applies every match of s against a fresh store. starting holds
// carried-over ratings; nil means s is the league's first season and new
// players start from the role defaults of the player updater.
//
// Malformed, duplicate and corrupt matches are skipped whole and reported in
// the result. A registry that cannot price an action aborts the run before
// any state is mutated.
func (e *Engine) RunSeason(ctx context.Context, s Season, starting map[string]float64) (*SeasonResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	begin := time.Now()
	log := e.log.With(logger.String("league", s.League), logger.String("season", s.ID))

	if err := e.preflight(s); err != nil {
		log.Error(ctx, "season aborted", logger.Error(err))
		return nil, err
	}

	run := &seasonRun{
		season:   s,
		starting: starting,
		store:    store.New(e.playerCfg.MomentumCapacity),
		seen:     dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(e.dedupeSize)),
		result: &SeasonResult{
			League:   s.League,
			Season:   s.ID,
			Registry: e.registry.ID(),
			Skips:    append([]Skip(nil), s.Skips...),
			Dropped:  map[normalize.Reason]int{},
		},
	}
	for _, sk := range s.Skips {
		metrics.RecordMatchSkipped(s.League, sk.Reason)
	}

	for _, rec := range s.Matches {
		err := e.applyMatch(ctx, run, rec)
		if err == nil {
			run.result.Processed++
			metrics.RecordMatchProcessed(s.League)
			continue
		}
		reason, ok := skipReason(err)
		if !ok {
			log.Error(ctx, "season aborted", logger.String("match_id", rec.MatchID), logger.Error(err))
			return nil, err
		}
		run.result.Skips = append(run.result.Skips, Skip{MatchID: rec.MatchID, Reason: reason, Err: err})
		metrics.RecordMatchSkipped(s.League, reason)
		log.Warn(ctx, "match skipped",
			logger.String("match_id", rec.MatchID),
			logger.String("reason", reason),
			logger.Error(err))
	}

	if err := e.finalize(ctx, run); err != nil {
		return nil, err
	}

	res := run.result
	metrics.UpdatePlayersTracked(s.League, len(res.Players))
	metrics.UpdateTeamsTracked(s.League, len(res.Teams))
	metrics.RecordSeasonDuration(s.League, time.Since(begin).Seconds())
	log.Info(ctx, "season rated",
		logger.Int("matches", res.Processed),
		logger.Int("skipped", len(res.Skips)),
		logger.Int("players", len(res.Players)),
		logger.Int("teams", len(res.Teams)),
		logger.Duration("took", time.Since(begin)))
	return res, nil
}

// preflight validates the registry and, for strict registries, prices every
// action of the season up front so a missing weight aborts before any state
// changes.
func (e *Engine) preflight(s Season) error {
	if err := e.registry.Validate(); err != nil {
		return err
	}
	if !e.registry.Strict() {
		return nil
	}
	for _, rec := range s.Matches {
		for _, ev := range rec.Events {
			if err := e.registry.Check(ev.Action, ev.SecondaryAction); err != nil {
				return fmt.Errorf("match %s: %w", rec.MatchID, err)
			}
		}
	}
	return nil
}

// initialRating is the starting rating of a player first seen in a.
func (e *Engine) initialRating(run *seasonRun, a m.ResolvedAction) float64 {
	if run.starting == nil {
		return e.players.InitialRating(a)
	}
	if r, ok := run.starting[a.Player]; ok {
		return e.playerCfg.Bounds.Clamp(r)
	}
	role := a.Role
	if a.Goalkeeper {
		role = m.RoleGoalkeeper
	}
	return e.carry.Default(role)
}

// seasonRun is the working state of one RunSeason call.
type seasonRun struct {
	season   Season
	starting map[string]float64
	store    *store.RatingStore
	seen     dedupe.Deduper
	result   *SeasonResult
}
