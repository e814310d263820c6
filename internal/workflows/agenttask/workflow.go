package agenttask

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// AgentTaskWorkflow runs one submitted job as a single activity. The activity
// is not retried: it spends LLM tokens, and the task record already holds any
// failure it produced.
func AgentTaskWorkflow(ctx workflow.Context, params Params) (*Result, error) {
	log := workflow.GetLogger(ctx)
	log.Info("Starting agent task workflow", "task_id", params.Job.TaskID, "kind", params.Job.Kind)

	timeout := params.RunTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		HeartbeatTimeout:    3 * heartbeatInterval,
		WaitForCancellation: true,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var a *Activities
	if err := workflow.ExecuteActivity(ctx, a.RunJob, params.Job).Get(ctx, nil); err != nil {
		log.Error("Agent task activity failed", "task_id", params.Job.TaskID, "error", err)
		return nil, err
	}

	log.Info("Agent task workflow completed", "task_id", params.Job.TaskID)
	return &Result{TaskID: params.Job.TaskID, Kind: params.Job.Kind}, nil
}
