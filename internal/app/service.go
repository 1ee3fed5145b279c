// Package service wires sources, rating engines, leaderboards and the sink
// together and serves the read queries of the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/okian/hbelo/internal/adapters/mq/queue"
	workerpool "github.com/okian/hbelo/internal/adapters/mq/worker"
	"github.com/okian/hbelo/internal/adapters/repository"
	"github.com/okian/hbelo/internal/adapters/sink"
	"github.com/okian/hbelo/internal/adapters/source"
	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/pkg/logger"
	"github.com/okian/hbelo/pkg/metrics"
)

// Refresh outcomes used as metric labels.
const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

// historyReader is implemented by sinks that can read back stored tables.
type historyReader interface {
	LatestSeason(ctx context.Context, league string) (string, error)
	Players(ctx context.Context, league, season string) ([]engine.PlayerRow, error)
}

// league is the state of one configured league.
type league struct {
	// run serializes refreshes of the league so results publish in order.
	run    sync.Mutex
	source source.Source
	engine *engine.Engine
	board  *repository.TreapStore

	mu          sync.RWMutex
	results     []*engine.SeasonResult
	refreshedAt time.Time
	lastErr     error
}

// Service implements the API dependencies for the rating system.
type Service struct {
	mu sync.RWMutex

	sources    []source.Source
	engineOpts []engine.Option
	sink       sink.Sink
	leagues    map[string]*league

	jobs       *queue.InMemoryQueue
	workerPool *workerpool.Pool

	workerCount  int
	queueSize    int
	topCacheSize int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets the leagues to rate, one source per league.
func WithSources(srcs ...source.Source) Option {
	return func(s *Service) {
		s.sources = append(s.sources, srcs...)
	}
}

// WithEngineOptions sets the options every league engine is built with.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithSink persists every refreshed season.
func WithSink(sk sink.Sink) Option {
	return func(s *Service) {
		s.sink = sk
	}
}

// WithWorkerCount sets the number of leagues refreshed in parallel.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending refresh jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithTopCacheSize sets how many leading leaderboard rows are precomputed.
func WithTopCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topCacheSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    64,
		topCacheSize: 100,
		leagues:      make(map[string]*league),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds one engine and leaderboard per league, loads the last
// persisted tables when the sink can read them, and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting rating service...")

	leagues := make(map[string]*league, len(s.sources))
	for _, src := range s.sources {
		name := src.League()
		if _, dup := leagues[name]; dup {
			return fmt.Errorf("league %q configured twice", name)
		}
		opts := append([]engine.Option{engine.WithLogger(s.logger.Named("engine"))}, s.engineOpts...)
		eng, err := engine.New(opts...)
		if err != nil {
			return fmt.Errorf("league %s: %w", name, err)
		}
		leagues[name] = &league{
			source: src,
			engine: eng,
			board: repository.NewTreapStore(
				repository.WithLeague(name),
				repository.WithTopCacheSize(s.topCacheSize)),
		}
	}
	s.leagues = leagues
	s.warm(ctx)

	s.jobs = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
	)
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobs, workerpool.ProcessorFunc(s.process))
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("leagues", len(leagues)),
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// warm fills leaderboards from the sink's latest stored season.
func (s *Service) warm(ctx context.Context) {
	hr, ok := s.sink.(historyReader)
	if !ok {
		return
	}
	for name, l := range s.leagues {
		season, err := hr.LatestSeason(ctx, name)
		if err != nil {
			if !errors.Is(err, sink.ErrNoSeason) {
				s.logger.Warn(ctx, "cannot read stored season", logger.String("league", name), logger.Error(err))
			}
			continue
		}
		rows, err := hr.Players(ctx, name, season)
		if err != nil {
			s.logger.Warn(ctx, "cannot read stored players", logger.String("league", name), logger.Error(err))
			continue
		}
		if err := l.board.Replace(ctx, rows); err != nil {
			continue
		}
		s.logger.Info(ctx, "leaderboard loaded from sink",
			logger.String("league", name),
			logger.String("season", season),
			logger.Int("players", len(rows)))
	}
}

// Stop drains pending refreshes and shuts the workers down.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.logger.Info(ctx, "stopping rating service...")
	s.started = false
	pool := s.workerPool
	s.mu.Unlock()

	// Queued jobs still run process, which takes s.mu.
	if err := pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("worker pool: %w", err)
	}
	s.logger.Info(ctx, "rating service stopped")
	return nil
}

// Refresh re-rates every league on the worker pool and waits for all of
// them. Failures of single leagues are joined.
func (s *Service) Refresh(ctx context.Context) error {
	return s.RefreshLeagues(ctx, s.Leagues()...)
}

// RefreshLeagues re-rates the named leagues and waits for them.
func (s *Service) RefreshLeagues(ctx context.Context, names ...string) error {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return ErrNotStarted
	}
	for _, name := range names {
		if _, ok := s.leagues[name]; !ok {
			s.mu.RUnlock()
			return fmt.Errorf("%w: %s", ErrUnknownLeague, name)
		}
	}
	done := make(chan error, len(names))
	var errs []error
	pending := 0
	for _, name := range names {
		job := queue.Job{League: name, Requested: time.Now(), Done: done}
		if !s.jobs.Enqueue(ctx, job) {
			metrics.RecordRefresh(name, outcomeError)
			errs = append(errs, fmt.Errorf("league %s: %w", name, queue.ErrRejected))
			continue
		}
		pending++
	}
	s.mu.RUnlock()

	for ; pending > 0; pending-- {
		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return errors.Join(errs...)
}

// process is the worker-side refresh of one league.
func (s *Service) process(ctx context.Context, name string) error {
	s.mu.RLock()
	l, ok := s.leagues[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLeague, name)
	}

	l.run.Lock()
	defer l.run.Unlock()

	results, err := s.rate(ctx, l)
	l.mu.Lock()
	l.lastErr = err
	if err == nil && len(results) > 0 {
		l.results = results
		l.refreshedAt = time.Now()
	}
	l.mu.Unlock()
	return err
}

func (s *Service) rate(ctx context.Context, l *league) ([]*engine.SeasonResult, error) {
	name := l.source.League()
	seasons, err := l.source.Seasons(ctx)
	if err != nil {
		metrics.RecordRefresh(name, outcomeError)
		return nil, fmt.Errorf("read source: %w", err)
	}
	if len(seasons) == 0 {
		metrics.RecordRefresh(name, outcomeEmpty)
		s.logger.Warn(ctx, "league has no seasons", logger.String("league", name))
		return nil, nil
	}

	results, err := l.engine.Run(ctx, seasons)
	if err != nil {
		metrics.RecordRefresh(name, outcomeError)
		return nil, err
	}

	latest := results[len(results)-1]
	if err := l.board.Replace(ctx, latest.Players); err != nil {
		metrics.RecordRefresh(name, outcomeError)
		return nil, fmt.Errorf("publish leaderboard: %w", err)
	}
	if s.sink != nil {
		for _, r := range results {
			if err := s.sink.Write(ctx, r); err != nil {
				metrics.RecordRefresh(name, outcomeError)
				return nil, fmt.Errorf("persist %s: %w", r.Season, err)
			}
		}
	}
	metrics.RecordRefresh(name, outcomeOK)
	return results, nil
}

// Leagues returns the configured league names, sorted.
func (s *Service) Leagues() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.leagues) > 0 {
		out := make([]string, 0, len(s.leagues))
		for name := range s.leagues {
			out = append(out, name)
		}
		sort.Strings(out)
		return out
	}
	out := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, src.League())
	}
	sort.Strings(out)
	return out
}

func (s *Service) league(name string) (*league, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	l, ok := s.leagues[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLeague, name)
	}
	return l, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if !s.started {
		return stats
	}
	stats["queueLength"] = s.jobs.Len(ctx)

	leagues := make(map[string]interface{}, len(s.leagues))
	for name, l := range s.leagues {
		l.mu.RLock()
		ls := map[string]interface{}{
			"players": l.board.Count(ctx),
			"seasons": len(l.results),
		}
		if n := len(l.results); n > 0 {
			latest := l.results[n-1]
			skipped := 0
			for _, r := range l.results {
				skipped += len(r.Skips)
			}
			ls["latestSeason"] = latest.Season
			ls["registry"] = latest.Registry
			ls["teams"] = len(latest.Teams)
			ls["matchesProcessed"] = latest.Processed
			ls["matchesSkipped"] = skipped
			ls["refreshedAt"] = l.refreshedAt.UTC().Format(time.RFC3339)
		}
		if l.lastErr != nil {
			ls["lastError"] = l.lastErr.Error()
		}
		l.mu.RUnlock()
		leagues[name] = ls
	}
	stats["leagues"] = leagues
	return stats
}
