package repository

import (
	"context"

	"github.com/nexusqa/agents/internal/domain/entity"
)

// TaskRepository defines the interface for task record storage
type TaskRepository interface {
	// Get retrieves a task by ID; unknown IDs yield a NotFound AppError
	Get(ctx context.Context, id string) (*entity.Task, error)

	// Put inserts or replaces a task record
	Put(ctx context.Context, task *entity.Task) error

	// Update applies fn to the stored task atomically and persists the result.
	// fn returning false leaves the record untouched.
	Update(ctx context.Context, id string, fn func(task *entity.Task) bool) (*entity.Task, error)

	// List returns all tasks ordered by creation time
	List(ctx context.Context) ([]*entity.Task, error)

	// Delete removes a task record
	Delete(ctx context.Context, id string) error
}
