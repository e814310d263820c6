// Package dispatch hands submitted jobs to whatever executes them: goroutines
// in this process or a Temporal worker fleet.
package dispatch

import (
	"context"

	"github.com/nexusqa/agents/internal/domain/entity"
)

// Dispatcher starts background execution of a job
type Dispatcher interface {
	// Dispatch must not block on the job itself
	Dispatch(ctx context.Context, job *entity.Job) error

	// Cancel asks the running job for taskID to stop. Unknown ids are ignored.
	Cancel(ctx context.Context, taskID string) error
}

// Runner executes a job and records its outcome on the task
type Runner interface {
	Run(ctx context.Context, job *entity.Job)
}

// Failer records an error result for a task
type Failer interface {
	Fail(ctx context.Context, taskID, message string) error
}
