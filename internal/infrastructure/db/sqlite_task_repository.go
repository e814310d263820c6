package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/domain/repository"
	"github.com/nexusqa/agents/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteTaskRepository stores task records in an embedded SQLite file
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository opens (or creates) the database at path
func NewSQLiteTaskRepository(path string) (*SQLiteTaskRepository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps Update's read-modify-write atomic.
	db.SetMaxOpenConns(1)

	repo := &SQLiteTaskRepository{db: db}
	if err := repo.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

var _ repository.TaskRepository = (*SQLiteTaskRepository)(nil)

// Close closes the underlying database
func (r *SQLiteTaskRepository) Close() error {
	return r.db.Close()
}

// Ping checks that the database file is reachable
func (r *SQLiteTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteTaskRepository) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agent_tasks (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		agent_type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		has_result INTEGER NOT NULL DEFAULT 0,
		result_error TEXT NOT NULL DEFAULT '',
		result_json TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_agent_tasks_created_at ON agent_tasks(created_at);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize tables: %w", err)
	}
	return nil
}

const selectTask = `
	SELECT id, kind, agent_type, status, created_at, updated_at, has_result, result_error, result_json
	FROM agent_tasks`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var rec taskRecord
	err := row.Scan(&rec.ID, &rec.Kind, &rec.AgentType, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.HasResult, &rec.ResultError, &rec.ResultJSON)
	if err != nil {
		return nil, err
	}
	return rec.toEntity(), nil
}

// Get implements repository.TaskRepository
func (r *SQLiteTaskRepository) Get(ctx context.Context, id string) (*entity.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, selectTask+` WHERE id = ?`, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("Task")
		}
		return nil, errors.NewDatabaseError("Failed to get task by ID").WithError(err)
	}
	return task, nil
}

// Put implements repository.TaskRepository
func (r *SQLiteTaskRepository) Put(ctx context.Context, task *entity.Task) error {
	if err := upsert(ctx, r.db, toRecord(task)); err != nil {
		return errors.NewDatabaseError("Failed to save task").WithError(err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, rec *taskRecord) error {
	query := `
		INSERT INTO agent_tasks (id, kind, agent_type, status, created_at, updated_at, has_result, result_error, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			agent_type = excluded.agent_type,
			status = excluded.status,
			updated_at = excluded.updated_at,
			has_result = excluded.has_result,
			result_error = excluded.result_error,
			result_json = excluded.result_json
	`
	_, err := db.ExecContext(ctx, query, rec.ID, rec.Kind, rec.AgentType, rec.Status, rec.CreatedAt, rec.UpdatedAt,
		rec.HasResult, rec.ResultError, rec.ResultJSON)
	return err
}

// Update implements repository.TaskRepository
func (r *SQLiteTaskRepository) Update(ctx context.Context, id string, fn func(task *entity.Task) bool) (*entity.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("Failed to begin transaction").WithError(err)
	}
	defer tx.Rollback()

	task, err := scanTask(tx.QueryRowContext(ctx, selectTask+` WHERE id = ?`, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("Task")
		}
		return nil, errors.NewDatabaseError("Failed to load task for update").WithError(err)
	}

	if !fn(task) {
		return task, nil
	}
	if err := upsert(ctx, tx, toRecord(task)); err != nil {
		return nil, errors.NewDatabaseError("Failed to update task").WithError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.NewDatabaseError("Failed to commit task update").WithError(err)
	}
	return task, nil
}

// List implements repository.TaskRepository
func (r *SQLiteTaskRepository) List(ctx context.Context) ([]*entity.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTask+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, errors.NewDatabaseError("Failed to list tasks").WithError(err)
	}
	defer rows.Close()

	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, errors.NewDatabaseError("Failed to scan task").WithError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("Failed to list tasks").WithError(err)
	}
	return tasks, nil
}

// Delete implements repository.TaskRepository
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM agent_tasks WHERE id = ?`, id)
	if err != nil {
		return errors.NewDatabaseError("Failed to delete task").WithError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("Failed to get rows affected").WithError(err)
	}
	if rows == 0 {
		return errors.NewNotFound("Task")
	}
	return nil
}
