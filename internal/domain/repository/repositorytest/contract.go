// Package repositorytest holds behavior checks shared by every TaskRepository
// implementation.
package repositorytest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/domain/repository"
	"github.com/nexusqa/agents/pkg/errors"
)

// RunTaskRepository exercises a repository built fresh by newRepo for each subtest
func RunTaskRepository(t *testing.T, newRepo func(t *testing.T) repository.TaskRepository) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("get unknown is not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(ctx, "missing1")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("put then get", func(t *testing.T) {
		repo := newRepo(t)
		task := &entity.Task{ID: "aaaa0001", Kind: entity.TaskKindAgent, AgentType: "test_architect", Status: entity.TaskStatusPending, CreatedAt: base, UpdatedAt: base}
		require.NoError(t, repo.Put(ctx, task))

		got, err := repo.Get(ctx, "aaaa0001")
		require.NoError(t, err)
		assert.Equal(t, entity.TaskKindAgent, got.Kind)
		assert.Equal(t, "test_architect", got.AgentType)
		assert.Equal(t, entity.TaskStatusPending, got.Status)
		assert.True(t, base.Equal(got.CreatedAt))
		assert.Nil(t, got.Result)
	})

	t.Run("update persists results", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Put(ctx, &entity.Task{ID: "aaaa0002", Kind: entity.TaskKindText, Status: entity.TaskStatusRunning, CreatedAt: base, UpdatedAt: base}))

		updated, err := repo.Update(ctx, "aaaa0002", func(task *entity.Task) bool {
			return task.Transition(entity.TaskStatusError, entity.Failure("boom"), base.Add(time.Second))
		})
		require.NoError(t, err)
		assert.Equal(t, entity.TaskStatusError, updated.Status)

		got, err := repo.Get(ctx, "aaaa0002")
		require.NoError(t, err)
		require.NotNil(t, got.Result)
		assert.True(t, got.Result.IsError())
		assert.Equal(t, "boom", got.Result.Err)
	})

	t.Run("update rejected leaves record", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Put(ctx, &entity.Task{ID: "aaaa0003", Kind: entity.TaskKindText, Status: entity.TaskStatusCompleted, CreatedAt: base, UpdatedAt: base}))

		got, err := repo.Update(ctx, "aaaa0003", func(task *entity.Task) bool {
			return task.Transition(entity.TaskStatusRunning, nil, base.Add(time.Second))
		})
		require.NoError(t, err)
		assert.Equal(t, entity.TaskStatusCompleted, got.Status)
	})

	t.Run("update unknown is not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Update(ctx, "nope0000", func(*entity.Task) bool { return true })
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("list is ordered by creation", func(t *testing.T) {
		repo := newRepo(t)
		offsets := map[string]time.Duration{"aaaa0001": 0, "bbbb0002": time.Minute, "cccc0003": 2 * time.Minute}
		for _, id := range []string{"cccc0003", "aaaa0001", "bbbb0002"} {
			require.NoError(t, repo.Put(ctx, &entity.Task{ID: id, Kind: entity.TaskKindAgent, Status: entity.TaskStatusPending, CreatedAt: base.Add(offsets[id]), UpdatedAt: base}))
		}
		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, []string{"aaaa0001", "bbbb0002", "cccc0003"}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	})

	t.Run("list empty", func(t *testing.T) {
		tasks, err := newRepo(t).List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Put(ctx, &entity.Task{ID: "dddd0004", Kind: entity.TaskKindAgent, Status: entity.TaskStatusPending, CreatedAt: base, UpdatedAt: base}))
		require.NoError(t, repo.Delete(ctx, "dddd0004"))
		_, err := repo.Get(ctx, "dddd0004")
		assert.True(t, errors.IsNotFound(err))
		assert.True(t, errors.IsNotFound(repo.Delete(ctx, "dddd0004")))
	})

	t.Run("concurrent updates", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Put(ctx, &entity.Task{ID: "eeee0005", Kind: entity.TaskKindAgent, Status: entity.TaskStatusPending, CreatedAt: base, UpdatedAt: base}))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Update(ctx, "eeee0005", func(task *entity.Task) bool {
					if i%2 == 0 {
						return task.Transition(entity.TaskStatusRunning, nil, base)
					}
					res, _ := entity.Success(map[string]string{"worker": fmt.Sprint(i)})
					return task.Transition(entity.TaskStatusCompleted, res, base)
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		got, err := repo.Get(ctx, "eeee0005")
		require.NoError(t, err)
		assert.Contains(t, []entity.TaskStatus{entity.TaskStatusRunning, entity.TaskStatusCompleted}, got.Status)
	})
}
