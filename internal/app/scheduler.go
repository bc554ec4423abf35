/**
 * @description
 * Cron scheduler wrapping the daily subscription check.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the daily check cron job.
type Scheduler struct {
	cron     *cron.Cron
	checker  *Checker
	logger   *slog.Logger
	schedule string
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(checker *Checker, logger *slog.Logger, schedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:     c,
		checker:  checker,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the daily check and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.schedule, s.runCheck); err != nil {
		s.logger.Error("failed to schedule subscription check job", "error", err)
		return
	}
	s.logger.Info("scheduled subscription check job", "schedule", s.schedule)
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runCheck() {
	result, err := s.checker.RunDailyCheck(context.Background(), time.Now())
	if err != nil {
		s.logger.Error("subscription check job failed", "error", err)
		return
	}
	s.logger.Info("subscription check job finished",
		"notified", result.Notified,
		"rolled_over", result.RolledOver,
		"error", result.Error)
}
