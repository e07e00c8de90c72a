package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentflow/internal/models"
	"github.com/agentflow/agentflow/internal/repository"
)

func TestTaskRepository_CreateAndList(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, 1, "first task")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.UserID)
	assert.Equal(t, models.StatusNew, first.Status)
	assert.NotZero(t, first.ID)

	second, err := repo.Create(ctx, 1, "second task")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first task", tasks[0].Title)
	assert.Equal(t, "second task", tasks[1].Title)
}

func TestTaskRepository_ListIsScopedByOwner(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "mine")
	require.NoError(t, err)
	_, err = repo.Create(ctx, 2, "theirs")
	require.NoError(t, err)

	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)

	tasks, err = repo.ListByUser(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRepository_CreateRejectsInvalidTitle(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "")
	assert.ErrorIs(t, err, repository.ErrInvalidTask)

	_, err = repo.Create(ctx, 1, strings.Repeat("x", 256))
	assert.ErrorIs(t, err, repository.ErrInvalidTask)
}

func TestTaskRepository_Update(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task, err := repo.Create(ctx, 1, "original")
	require.NoError(t, err)

	status := models.StatusDone
	updated, err := repo.Update(ctx, repository.UpdateParams{
		UserID: 1,
		TaskID: task.ID,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "original", updated.Title)
	assert.Equal(t, models.StatusDone, updated.Status)

	title := "renamed"
	updated, err = repo.Update(ctx, repository.UpdateParams{
		UserID: 1,
		TaskID: task.ID,
		Title:  &title,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, models.StatusDone, updated.Status)
}

func TestTaskRepository_UpdateForeignTaskNotFound(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task, err := repo.Create(ctx, 1, "mine")
	require.NoError(t, err)

	title := "stolen"
	_, err = repo.Update(ctx, repository.UpdateParams{
		UserID: 2,
		TaskID: task.ID,
		Title:  &title,
	})
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)
}

func TestTaskRepository_DeleteIsIdempotent(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task, err := repo.Create(ctx, 1, "to delete")
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTaskRepository_DeleteForeignTask(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	task, err := repo.Create(ctx, 1, "mine")
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, 2, task.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskRepository_DeleteAllByUser(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, 1, "task")
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, 2, "other owner")
	require.NoError(t, err)

	count, err := repo.DeleteAllByUser(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	tasks, err = repo.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskRepository_DeleteAllByUserOverLimit(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	for i := 0; i < 51; i++ {
		_, err := repo.Create(ctx, 1, "task")
		require.NoError(t, err)
	}

	_, err := repo.DeleteAllByUser(ctx, 1, 50)
	assert.ErrorIs(t, err, repository.ErrTooManyTasks)

	tasks, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 51)
}
