package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nexusqa/agents/internal/dispatch"
	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/domain/repository"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
	"github.com/nexusqa/agents/pkg/metrics"
)

// TaskLifecycle moves tasks through their background states. It is what
// executors and dispatchers need, without the submission side.
type TaskLifecycle interface {
	// MarkRunning reports false when the task was cancelled before it started
	MarkRunning(ctx context.Context, id string) (bool, error)

	// Complete records a success payload
	Complete(ctx context.Context, id string, payload interface{}) error

	// Fail records an error result
	Fail(ctx context.Context, id, message string) error

	// FailRunning records an error result unless the task was cancelled
	// meanwhile, and reports whether it did
	FailRunning(ctx context.Context, id, message string) (bool, error)
}

// TaskUseCase handles task submission and lookup
type TaskUseCase interface {
	TaskLifecycle

	// Submit stores a pending task and dispatches its job
	Submit(ctx context.Context, kind entity.TaskKind, agentType string, payload interface{}) (*entity.Task, error)

	// Get returns a task by id
	Get(ctx context.Context, id string) (*entity.Task, error)

	// List returns every task ordered by creation
	List(ctx context.Context) ([]*entity.Task, error)

	// Cancel marks a task cancelled whatever its state
	Cancel(ctx context.Context, id string) (*entity.Task, error)
}

type taskLifecycle struct {
	repo repository.TaskRepository
	log  logger.Logger
	now  func() time.Time
}

// NewTaskLifecycle creates the background-side task state machine
func NewTaskLifecycle(repo repository.TaskRepository, log logger.Logger) TaskLifecycle {
	return &taskLifecycle{repo: repo, log: log, now: time.Now}
}

// MarkRunning implements TaskLifecycle
func (l *taskLifecycle) MarkRunning(ctx context.Context, id string) (bool, error) {
	var moved bool
	_, err := l.repo.Update(ctx, id, func(t *entity.Task) bool {
		moved = t.Transition(entity.TaskStatusRunning, nil, l.now())
		return moved
	})
	if err != nil {
		return false, err
	}
	return moved, nil
}

// Complete implements TaskLifecycle
func (l *taskLifecycle) Complete(ctx context.Context, id string, payload interface{}) error {
	result, err := entity.Success(payload)
	if err != nil {
		l.log.Error("failed to encode task result", logger.String("task_id", id), logger.Error(err))
		return l.finish(ctx, id, entity.TaskStatusError, entity.Failure("failed to encode result: "+err.Error()))
	}
	return l.finish(ctx, id, entity.TaskStatusCompleted, result)
}

// Fail implements TaskLifecycle
func (l *taskLifecycle) Fail(ctx context.Context, id, message string) error {
	return l.finish(ctx, id, entity.TaskStatusError, entity.Failure(message))
}

// FailRunning implements TaskLifecycle. A cancelled task keeps no error
// result, since the error is usually the cancellation itself.
func (l *taskLifecycle) FailRunning(ctx context.Context, id, message string) (bool, error) {
	var moved bool
	task, err := l.repo.Update(ctx, id, func(t *entity.Task) bool {
		if t.Status == entity.TaskStatusCancelled {
			return false
		}
		moved = t.Transition(entity.TaskStatusError, entity.Failure(message), l.now())
		return moved
	})
	if err != nil {
		return false, err
	}
	if moved {
		metrics.TasksFinished.WithLabelValues(task.Kind.String(), entity.TaskStatusError.String()).Inc()
	}
	return moved, nil
}

func (l *taskLifecycle) finish(ctx context.Context, id string, status entity.TaskStatus, result *entity.Result) error {
	var moved bool
	task, err := l.repo.Update(ctx, id, func(t *entity.Task) bool {
		before := t.Result
		moved = t.Transition(status, result, l.now())
		return moved || t.Result != before
	})
	if err != nil {
		return err
	}

	if !moved {
		l.log.Warn("task already terminal, keeping status",
			logger.String("task_id", id),
			logger.String("status", task.Status.String()),
			logger.String("attempted", status.String()))
		return nil
	}
	metrics.TasksFinished.WithLabelValues(task.Kind.String(), status.String()).Inc()
	return nil
}

// taskUseCase is the concrete implementation
type taskUseCase struct {
	TaskLifecycle
	repo       repository.TaskRepository
	dispatcher dispatch.Dispatcher
	logger     logger.Logger
	now        func() time.Time
	newID      func() string
}

// NewTaskUseCase creates a new task use case
func NewTaskUseCase(repo repository.TaskRepository, dispatcher dispatch.Dispatcher, log logger.Logger) TaskUseCase {
	return &taskUseCase{
		TaskLifecycle: NewTaskLifecycle(repo, log),
		repo:          repo,
		dispatcher:    dispatcher,
		logger:        log,
		now:           time.Now,
		newID:         newTaskID,
	}
}

func newTaskID() string {
	return uuid.NewString()[:8]
}

// Submit implements TaskUseCase
func (uc *taskUseCase) Submit(ctx context.Context, kind entity.TaskKind, agentType string, payload interface{}) (*entity.Task, error) {
	id := uc.newID()
	job, err := entity.NewJob(id, kind, agentType, payload)
	if err != nil {
		return nil, errors.NewBadRequest("Invalid task payload").WithError(err)
	}

	now := uc.now()
	task := &entity.Task{
		ID:        id,
		Kind:      kind,
		AgentType: agentType,
		Status:    entity.TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Put(ctx, task); err != nil {
		uc.logger.Error("failed to store task", logger.String("task_id", id), logger.Error(err))
		return nil, err
	}

	if err := uc.dispatcher.Dispatch(ctx, job); err != nil {
		uc.logger.Error("failed to dispatch task", logger.String("task_id", id), logger.Error(err))
		if ferr := uc.Fail(ctx, id, "dispatch failed: "+err.Error()); ferr != nil {
			uc.logger.Error("failed to record dispatch failure", logger.String("task_id", id), logger.Error(ferr))
		}
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewServiceUnavailable("Failed to start background task").WithError(err)
	}

	metrics.TasksSubmitted.WithLabelValues(kind.String()).Inc()
	uc.logger.Info("task submitted",
		logger.String("task_id", id),
		logger.String("kind", kind.String()),
		logger.String("agent_type", agentType))
	return task, nil
}

// Get implements TaskUseCase
func (uc *taskUseCase) Get(ctx context.Context, id string) (*entity.Task, error) {
	return uc.repo.Get(ctx, id)
}

// List implements TaskUseCase
func (uc *taskUseCase) List(ctx context.Context) ([]*entity.Task, error) {
	return uc.repo.List(ctx)
}

// Cancel implements TaskUseCase
func (uc *taskUseCase) Cancel(ctx context.Context, id string) (*entity.Task, error) {
	task, err := uc.repo.Update(ctx, id, func(t *entity.Task) bool {
		t.Cancel(uc.now())
		return true
	})
	if err != nil {
		return nil, err
	}

	if err := uc.dispatcher.Cancel(ctx, id); err != nil {
		uc.logger.Warn("failed to stop background job", logger.String("task_id", id), logger.Error(err))
	}
	uc.logger.Info("task cancelled", logger.String("task_id", id))
	return task, nil
}
