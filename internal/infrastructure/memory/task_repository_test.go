package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/domain/repository"
	"github.com/nexusqa/agents/internal/domain/repository/repositorytest"
)

func TestTaskRepositoryContract(t *testing.T) {
	repositorytest.RunTaskRepository(t, func(*testing.T) repository.TaskRepository {
		return NewTaskRepository()
	})
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	require.NoError(t, repo.Put(ctx, &entity.Task{ID: "abcd1234", Status: entity.TaskStatusPending}))

	got, err := repo.Get(ctx, "abcd1234")
	require.NoError(t, err)
	got.Status = entity.TaskStatusCompleted

	again, err := repo.Get(ctx, "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusPending, again.Status)
}
