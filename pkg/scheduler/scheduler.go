package scheduler

import (
	"context"
	"fmt"
	"time"

	applogger "StockSage/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Task is a named job executed on a cron schedule.
type Task struct {
	Name string
	Spec string // standard 5-field cron expression
	Run  func(ctx context.Context) error
}

// Scheduler runs registered tasks on their cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *applogger.Logger
}

// New creates a scheduler. Tasks run in the given base context; each run is
// bounded by the per-run timeout.
func New(logger *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Register adds a task; returns an error for an invalid cron spec.
func (s *Scheduler) Register(ctx context.Context, task Task, timeout time.Duration) error {
	if task.Run == nil {
		return fmt.Errorf("task %s: nil run func", task.Name)
	}
	_, err := s.cron.AddFunc(task.Spec, func() {
		runCtx := ctx
		cancel := func() {}
		if timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()

		start := time.Now()
		if err := task.Run(runCtx); err != nil {
			s.logger.Warn("scheduled task failed",
				applogger.String("task", task.Name),
				applogger.Error(err),
			)
			return
		}
		s.logger.Info("scheduled task done",
			applogger.String("task", task.Name),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	})
	if err != nil {
		return fmt.Errorf("register task %s: %w", task.Name, err)
	}
	return nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
