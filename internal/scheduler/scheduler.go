// Package scheduler runs the periodic ledger jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled run. It receives the calendar date of the tick.
type Job func(ctx context.Context, asOf core.Date) (int, error)

// Scheduler fires jobs on standard five field cron expressions. Failed runs
// are logged and dropped; the next tick is the retry.
type Scheduler struct {
	cron   *cron.Cron
	clock  clock.Clock
	logger *slog.Logger
	ctx    context.Context
}

func New(loc *time.Location, clk clock.Clock, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		clock:  clk,
		logger: logger,
		ctx:    context.Background(),
	}
}

// Add registers job under name.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunNow(s.ctx, name, job) }); err != nil {
		return fmt.Errorf("schedule %s job %q: %w", name, spec, err)
	}
	s.logger.Info("Job scheduled", "job", name, "schedule", spec)
	return nil
}

// RunNow executes job once, logging its outcome. Panics are recovered so a
// broken run never takes the process down.
func (s *Scheduler) RunNow(ctx context.Context, name string, job Job) {
	asOf := clock.Today(s.clock)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Scheduled job panicked", "job", name, "panic", r)
		}
	}()

	n, err := job(ctx, asOf)
	if err != nil {
		s.logger.ErrorContext(ctx, "Scheduled job failed",
			"job", name,
			"as_of", asOf.String(),
			"affected", n,
			"error", err)
		return
	}
	s.logger.InfoContext(ctx, "Scheduled job complete",
		"job", name,
		"as_of", asOf.String(),
		"affected", n,
		"duration_ms", time.Since(start).Milliseconds())
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("Scheduler started", "jobs", len(s.cron.Entries()))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
	return nil
}
