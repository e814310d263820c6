package db

import (
	"context"
	stderrors "errors"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/domain/repository"
	"github.com/nexusqa/agents/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskRepository is the GORM implementation of the task repository
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository using GORM
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// AutoMigrate creates or updates the agent_tasks table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&taskRecord{})
}

// Get implements repository.TaskRepository
func (r *TaskRepository) Get(ctx context.Context, id string) (*entity.Task, error) {
	var rec taskRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("Task")
		}
		return nil, errors.NewDatabaseError("Failed to get task by ID").WithError(err)
	}
	return rec.toEntity(), nil
}

// Put implements repository.TaskRepository
func (r *TaskRepository) Put(ctx context.Context, task *entity.Task) error {
	err := r.db.WithContext(ctx).Save(toRecord(task)).Error
	if err != nil {
		return errors.NewDatabaseError("Failed to save task").WithError(err)
	}
	return nil
}

// Update implements repository.TaskRepository
func (r *TaskRepository) Update(ctx context.Context, id string, fn func(task *entity.Task) bool) (*entity.Task, error) {
	var out *entity.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec taskRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&rec).Error
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewNotFound("Task")
			}
			return errors.NewDatabaseError("Failed to load task for update").WithError(err)
		}

		task := rec.toEntity()
		if !fn(task) {
			out = task
			return nil
		}
		if err := tx.Save(toRecord(task)).Error; err != nil {
			return errors.NewDatabaseError("Failed to update task").WithError(err)
		}
		out = task
		return nil
	})
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewDatabaseError("Failed to update task").WithError(err)
	}
	return out, nil
}

// List implements repository.TaskRepository
func (r *TaskRepository) List(ctx context.Context) ([]*entity.Task, error) {
	var recs []taskRecord
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&recs).Error
	if err != nil {
		return nil, errors.NewDatabaseError("Failed to list tasks").WithError(err)
	}

	tasks := make([]*entity.Task, len(recs))
	for i := range recs {
		tasks[i] = recs[i].toEntity()
	}
	return tasks, nil
}

// Delete implements repository.TaskRepository
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id)
	if result.Error != nil {
		return errors.NewDatabaseError("Failed to delete task").WithError(result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFound("Task")
	}

	return nil
}
