package agenttask

import (
	"time"

	"github.com/nexusqa/agents/internal/domain/entity"
)

// WorkflowName is the registered name of AgentTaskWorkflow
const WorkflowName = "AgentTaskWorkflow"

// heartbeatInterval must stay well below the activity heartbeat timeout
const heartbeatInterval = 10 * time.Second

// WorkflowID derives the workflow id from the task id so a task maps to exactly one run
func WorkflowID(taskID string) string {
	return "agent-task-" + taskID
}

// Params is the workflow input
type Params struct {
	Job entity.Job
	// RunTimeout bounds a single job execution
	RunTimeout time.Duration
}

// Result is the workflow output
type Result struct {
	TaskID string
	Kind   entity.TaskKind
}
