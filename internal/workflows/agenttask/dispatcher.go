package agenttask

import (
	"context"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
	"github.com/nexusqa/agents/pkg/metrics"
)

// Dispatcher starts an AgentTaskWorkflow per job. Workers and the API must
// share a durable task store for results to be visible.
type Dispatcher struct {
	client     client.Client
	taskQueue  string
	runTimeout time.Duration
	log        logger.Logger
}

// NewDispatcher creates a Temporal-backed dispatcher
func NewDispatcher(c client.Client, taskQueue string, runTimeout time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		client:     c,
		taskQueue:  taskQueue,
		runTimeout: runTimeout,
		log:        log,
	}
}

// Dispatch implements dispatch.Dispatcher
func (d *Dispatcher) Dispatch(ctx context.Context, job *entity.Job) error {
	opts := client.StartWorkflowOptions{
		ID:        WorkflowID(job.TaskID),
		TaskQueue: d.taskQueue,
	}

	run, err := d.client.ExecuteWorkflow(ctx, opts, WorkflowName, Params{Job: *job, RunTimeout: d.runTimeout})
	if err != nil {
		d.log.Error("failed to start agent task workflow",
			logger.String("task_id", job.TaskID),
			logger.Error(err))
		return errors.NewServiceUnavailable("Failed to start background task").WithError(err)
	}

	metrics.WorkflowsStarted.WithLabelValues(WorkflowName).Inc()
	d.log.Info("agent task workflow started",
		logger.String("task_id", job.TaskID),
		logger.String("workflow_id", run.GetID()),
		logger.String("run_id", run.GetRunID()))
	return nil
}

// Cancel implements dispatch.Dispatcher. Workflows that already finished
// report an error here, which callers treat as advisory.
func (d *Dispatcher) Cancel(ctx context.Context, taskID string) error {
	if err := d.client.CancelWorkflow(ctx, WorkflowID(taskID), ""); err != nil {
		return errors.NewExternalService("temporal", "Failed to cancel workflow").WithError(err)
	}
	return nil
}
