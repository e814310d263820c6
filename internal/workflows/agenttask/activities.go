package agenttask

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/nexusqa/agents/internal/dispatch"
	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/logger"
	"github.com/nexusqa/agents/pkg/metrics"
)

// Activities executes jobs on a worker
type Activities struct {
	runner dispatch.Runner
	failer dispatch.Failer
	log    logger.Logger
}

// NewActivities creates the activity set backed by runner
func NewActivities(runner dispatch.Runner, failer dispatch.Failer, log logger.Logger) *Activities {
	return &Activities{runner: runner, failer: failer, log: log}
}

// RunJob executes the job and records its outcome on the shared task store.
// The runner handles job errors itself; only a panic surfaces as an activity error.
func (a *Activities) RunJob(ctx context.Context, job entity.Job) (err error) {
	ctx = logger.ContextWithFields(ctx,
		logger.String("task_id", job.TaskID),
		logger.String("kind", job.Kind.String()))
	log := a.log.WithContext(ctx)
	log.Info("Activity: RunJob")

	stop := heartbeat(ctx)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			metrics.ActivityErrors.WithLabelValues("RunJob").Inc()
			log.Error("job panicked", logger.Any("panic", r))
			msg := fmt.Sprintf("internal error: %v", r)
			if ferr := a.failer.Fail(context.Background(), job.TaskID, msg); ferr != nil {
				log.Error("failed to record panic result", logger.Error(ferr))
			}
			err = fmt.Errorf("run job %s: %s", job.TaskID, msg)
		}
	}()

	a.runner.Run(ctx, &job)
	return nil
}

// heartbeat keeps the activity alive and lets cancellation reach ctx
func heartbeat(ctx context.Context) func() {
	if !activity.IsActivity(ctx) {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
