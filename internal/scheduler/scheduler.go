package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cash-flow/internal/config"
	"cash-flow/internal/finance"
	"cash-flow/internal/logger"

	"github.com/robfig/cron/v3"
)

// Maintenance is the store surface the background jobs use.
type Maintenance interface {
	ResetStaleLimits(ctx context.Context, today finance.Day) (int64, error)
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs periodic housekeeping: clearing yesterday's limit alert
// flags and deleting dead sessions.
type Scheduler struct {
	cron  *cron.Cron
	store Maintenance
	clock finance.Clock
	log   *slog.Logger
}

func New(cfg config.SchedulerConfig, store Maintenance, clock finance.Clock, log *slog.Logger) (*Scheduler, error) {
	opts := []cron.Option{}
	if clock.Location != nil {
		opts = append(opts, cron.WithLocation(clock.Location))
	}

	s := &Scheduler{
		cron:  cron.New(opts...),
		store: store,
		clock: clock,
		log:   logger.Component(log, logger.ComponentScheduler),
	}

	if _, err := s.cron.AddFunc(cfg.LimitResetSpec, func() { s.ResetLimits(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule limit reset %q: %w", cfg.LimitResetSpec, err)
	}
	if _, err := s.cron.AddFunc(cfg.SessionPurgeSpec, func() { s.PurgeSessions(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule session purge %q: %w", cfg.SessionPurgeSpec, err)
	}
	return s, nil
}

// Run starts the cron loop and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

// ResetLimits clears notification flags that belong to an earlier day.
func (s *Scheduler) ResetLimits(ctx context.Context) {
	n, err := s.store.ResetStaleLimits(ctx, s.clock.Today())
	if err != nil {
		s.log.Error("reset stale limits failed", logger.FieldError, err)
		return
	}
	s.log.Info("stale limit flags reset", "rows", n)
}

// PurgeSessions deletes revoked and expired sessions.
func (s *Scheduler) PurgeSessions(ctx context.Context) {
	n, err := s.store.PurgeExpiredSessions(ctx, s.clock.Time())
	if err != nil {
		s.log.Error("purge sessions failed", logger.FieldError, err)
		return
	}
	s.log.Info("expired sessions purged", "rows", n)
}
