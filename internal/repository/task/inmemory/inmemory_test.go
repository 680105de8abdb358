package inmemory_test

import (
	"context"
	"testing"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/repository"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/repository/task/repotest"
	"taskManager/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStorage_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) service.TaskRepository {
		return inmemory.NewTaskStorage()
	})
}

func TestTaskStorage_ClosedErrors(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	require.NoError(t, storage.Close())

	assert.ErrorIs(t, storage.EnsureSchema(ctx), repository.ErrClosed)
	assert.ErrorIs(t, storage.HealthCheck(ctx), repository.ErrClosed)

	_, err := storage.ListDueBetween(ctx, time.Now(), time.Now())
	assert.ErrorIs(t, err, repository.ErrClosed)
}

// TestTaskStorage_ReturnsCopies checks that callers cannot mutate stored rows
func TestTaskStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	tk, err := task.New("Pay rent", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = storage.Insert(ctx, tk)
	require.NoError(t, err)

	first, err := storage.ListAll(ctx)
	require.NoError(t, err)
	first[0].Title = "changed"

	second, err := storage.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", second[0].Title)
}

func TestTaskStorage_SameDueDateOrderedByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	for _, title := range []string{"first", "second", "third"} {
		tk, err := task.New(title, due)
		require.NoError(t, err)
		_, err = storage.Insert(ctx, tk)
		require.NoError(t, err)
	}

	got, err := storage.ListDueBetween(ctx, due, due)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
}
