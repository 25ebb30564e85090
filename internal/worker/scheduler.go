// Package worker runs the level upgrade batch on a cron schedule.
package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/dtroode/levelkeeper/internal/logger"
	"github.com/dtroode/levelkeeper/internal/model"
)

// Upgrader runs one level upgrade batch.
type Upgrader interface {
	UpgradeLevels(ctx context.Context) (model.UpgradeResult, error)
}

// Scheduler triggers the batch on a cron schedule. Runs never overlap: a tick
// that fires while the previous batch is still running is skipped.
type Scheduler struct {
	upgrader Upgrader
	archive  model.ReportArchive
	schedule string
	cron     *cron.Cron
	logger   *logger.Logger
}

// NewScheduler validates schedule (standard five field cron spec or a
// descriptor such as "@hourly"). archive may be nil.
func NewScheduler(upgrader Upgrader, archive model.ReportArchive, schedule string, logger *logger.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	cl := cronLogger{logger: logger}
	return &Scheduler{
		upgrader: upgrader,
		archive:  archive,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:   logger,
	}, nil
}

// Start schedules the batch and blocks until ctx is cancelled, then waits for
// a running batch to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		_, _ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule upgrade batch: %w", err)
	}

	s.logger.Info("Scheduler: started", "schedule", s.schedule)
	s.cron.Start()

	<-ctx.Done()

	s.logger.Info("Scheduler: stopping")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler: stopped")
	return nil
}

// RunOnce runs a single batch and archives its report when it commits.
// Archiving happens after commit, so an archive failure is only logged.
func (s *Scheduler) RunOnce(ctx context.Context) (model.UpgradeResult, error) {
	if err := ctx.Err(); err != nil {
		return model.UpgradeResult{}, err
	}

	result, err := s.upgrader.UpgradeLevels(ctx)
	if err != nil {
		s.logger.Error("Scheduler: upgrade batch failed", "error", err)
		return result, err
	}

	if s.archive == nil {
		return result, nil
	}

	if err := s.archive.Save(ctx, model.NewRunReport(result)); err != nil {
		s.logger.Error("Scheduler: failed to archive run report",
			"run_id", result.RunID.String(),
			"error", err)
		return result, nil
	}
	s.logger.Debug("Scheduler: run report archived", "run_id", result.RunID.String())

	return result, nil
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	logger *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
