package agenttask

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/nexusqa/agents/internal/dispatch"
	"github.com/nexusqa/agents/pkg/logger"
)

// Registrar implements registry.Registrar for agent task workflows
type Registrar struct {
	activities *Activities
	taskQueue  string
}

// NewRegistrar creates the agent task registrar for taskQueue
func NewRegistrar(runner dispatch.Runner, failer dispatch.Failer, log logger.Logger, taskQueue string) *Registrar {
	return &Registrar{
		activities: NewActivities(runner, failer, log),
		taskQueue:  taskQueue,
	}
}

// TaskQueue returns the task queue this registrar handles
func (r *Registrar) TaskQueue() string {
	return r.taskQueue
}

// Register registers the workflow and its activity
func (r *Registrar) Register(w worker.Registry) {
	w.RegisterWorkflowWithOptions(AgentTaskWorkflow, workflow.RegisterOptions{Name: WorkflowName})
	w.RegisterActivityWithOptions(r.activities.RunJob, activity.RegisterOptions{Name: "RunJob"})
}
