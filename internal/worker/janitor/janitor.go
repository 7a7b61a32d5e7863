package janitor

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskhive/backend/repository"
)

const sweepTimeout = time.Minute

// Janitor periodically removes tasks whose project no longer exists.
// Project deletion already cascades, so a sweep normally finds nothing;
// it clears out orphans left behind by older, non-cascading deployments.
type Janitor struct {
	tasks    repository.TaskRepository
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, schedule string, logger *zap.Logger) *Janitor {
	if schedule == "" {
		schedule = "@hourly"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Janitor{
		tasks:    tasks,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}

	_, _ = j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if err := j.Sweep(ctx); err != nil {
			j.logger.Error("orphan sweep failed", zap.Error(err))
		}
	})

	return j
}

// Start launches the cron scheduler.
func (j *Janitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("janitor started", zap.String("schedule", j.schedule))
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (j *Janitor) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("janitor stopped")
}

// Sweep deletes orphaned tasks once. Idempotent: finding nothing to
// delete is not an error.
func (j *Janitor) Sweep(ctx context.Context) error {
	deleted, err := j.tasks.DeleteOrphans(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		j.logger.Info("orphaned tasks removed", zap.Int64("count", deleted))
	}
	return nil
}
