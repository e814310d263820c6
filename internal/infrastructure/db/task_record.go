package db

import (
	"time"

	"github.com/nexusqa/agents/internal/domain/entity"
)

// taskRecord is the row layout shared by the SQL-backed task repositories
type taskRecord struct {
	ID          string `gorm:"primaryKey;size:16"`
	Kind        string `gorm:"size:32;not null"`
	AgentType   string `gorm:"size:64"`
	Status      string `gorm:"size:16;not null;index"`
	CreatedAt   int64  `gorm:"autoCreateTime:false;not null;index"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:false;not null"`
	HasResult   bool   `gorm:"not null;default:false"`
	ResultError string `gorm:"type:text"`
	ResultJSON  string `gorm:"type:text"`
}

// TableName pins the table name for GORM
func (taskRecord) TableName() string {
	return "agent_tasks"
}

func toRecord(task *entity.Task) *taskRecord {
	rec := &taskRecord{
		ID:        task.ID,
		Kind:      string(task.Kind),
		AgentType: task.AgentType,
		Status:    string(task.Status),
		CreatedAt: task.CreatedAt.UnixNano(),
		UpdatedAt: task.UpdatedAt.UnixNano(),
	}
	if task.Result != nil {
		rec.HasResult = true
		if task.Result.IsError() {
			rec.ResultError = task.Result.Err
		} else {
			rec.ResultJSON = string(task.Result.Payload)
		}
	}
	return rec
}

func (rec *taskRecord) toEntity() *entity.Task {
	task := &entity.Task{
		ID:        rec.ID,
		Kind:      entity.TaskKind(rec.Kind),
		AgentType: rec.AgentType,
		Status:    entity.TaskStatus(rec.Status),
		CreatedAt: time.Unix(0, rec.CreatedAt).UTC(),
		UpdatedAt: time.Unix(0, rec.UpdatedAt).UTC(),
	}
	if rec.HasResult {
		if rec.ResultJSON == "" {
			task.Result = entity.Failure(rec.ResultError)
		} else {
			task.Result = &entity.Result{Payload: []byte(rec.ResultJSON)}
		}
	}
	return task
}
