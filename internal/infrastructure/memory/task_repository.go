package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/domain/repository"
	"github.com/nexusqa/agents/pkg/errors"
)

// TaskRepository keeps task records in process memory
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*entity.Task
}

// NewTaskRepository creates an empty in-memory task repository
func NewTaskRepository() repository.TaskRepository {
	return &TaskRepository{tasks: make(map[string]*entity.Task)}
}

// Get implements repository.TaskRepository
func (r *TaskRepository) Get(_ context.Context, id string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, errors.NewNotFound("Task")
	}
	return task.Clone(), nil
}

// Put implements repository.TaskRepository
func (r *TaskRepository) Put(_ context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = task.Clone()
	return nil
}

// Update implements repository.TaskRepository
func (r *TaskRepository) Update(_ context.Context, id string, fn func(task *entity.Task) bool) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[id]
	if !ok {
		return nil, errors.NewNotFound("Task")
	}

	working := current.Clone()
	if fn(working) {
		r.tasks[id] = working
		return working.Clone(), nil
	}
	return current.Clone(), nil
}

// List implements repository.TaskRepository
func (r *TaskRepository) List(_ context.Context) ([]*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		out = append(out, task.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete implements repository.TaskRepository
func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return errors.NewNotFound("Task")
	}
	delete(r.tasks, id)
	return nil
}
