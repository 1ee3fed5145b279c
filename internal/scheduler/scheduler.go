// Package scheduler triggers periodic re-rating runs.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/okian/hbelo/pkg/logger"
)

// Refresher re-rates every configured league.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs a Refresher on a cron spec with a seconds field.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	ctx       context.Context
	log       logger.Logger
}

// New creates a Scheduler. Jobs run with ctx.
func New(ctx context.Context, r Refresher, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresher: r,
		ctx:       ctx,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds the refresh task for spec, e.g. "0 0 6 * * *".
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return fmt.Errorf("register refresh task %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info(s.ctx, "scheduler started", logger.Int("tasks", len(s.cron.Entries())))
}

// Stop stops the loop and waits for a running refresh to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info(ctx, "scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.refresh()
}

func (s *Scheduler) refresh() {
	s.log.Info(s.ctx, "running scheduled refresh")
	if err := s.refresher.Refresh(s.ctx); err != nil {
		s.log.Error(s.ctx, "scheduled refresh failed", logger.Error(err))
	}
}
