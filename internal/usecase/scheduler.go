package usecase

import (
	"context"
	"log/slog"
	"time"

	"AlphaWatcher/internal/ports"
)

// Scheduler wires the cron-like driver with the watch pipeline.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring cycles.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the watch cycle with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.pipeline.RunCycle(ctx)
		if err != nil {
			s.log(slog.LevelError, "cycle failed", "trigger", trigger.Format(time.RFC3339), "error", err)
			return
		}
		if report.Notified == 0 {
			s.log(slog.LevelInfo, "no new listings",
				"fetched", report.Fetched, "skipped", report.Skipped)
			return
		}
		s.log(slog.LevelInfo, "cycle complete",
			"fetched", report.Fetched,
			"classified", report.Classified,
			"notified", report.Notified,
			"skipped", report.Skipped,
			"detail_failures", report.DetailFailures,
			"notify_failures", report.NotifyFailures)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) log(level slog.Level, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Log(context.Background(), level, msg, args...)
	}
}
