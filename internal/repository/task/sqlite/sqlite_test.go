package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/repository"
	"taskManager/internal/repository/task/repotest"
	"taskManager/internal/repository/task/sqlite"
	"taskManager/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens an in-memory database with the schema in place
func setupTestDB(t *testing.T) *sqlite.Storage {
	t.Helper()

	storage, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, storage.EnsureSchema(context.Background()))
	return storage
}

func TestStorage_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) service.TaskRepository {
		return setupTestDB(t)
	})
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.db")

	first, err := sqlite.New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.EnsureSchema(ctx))

	tk, err := task.New("Pay rent", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), task.WithStatus(task.StatusInProgress))
	require.NoError(t, err)
	id, err := first.Insert(ctx, tk)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := sqlite.New(ctx, path)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.EnsureSchema(ctx))

	rows, err := second.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tk.WithID(id), rows[0])

	next, err := second.Insert(ctx, tk)
	require.NoError(t, err)
	assert.Greater(t, next, id)
}

func TestStorage_RejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	storage := setupTestDB(t)

	_, err := storage.Insert(ctx, task.Task{
		Status:  task.StatusPending,
		DueDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)

	rows, err := storage.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStorage_ClosedReturnsErrClosed(t *testing.T) {
	ctx := context.Background()
	storage := setupTestDB(t)
	require.NoError(t, storage.Close())
	require.NoError(t, storage.Close())

	assert.ErrorIs(t, storage.HealthCheck(ctx), repository.ErrClosed)
	assert.ErrorIs(t, storage.EnsureSchema(ctx), repository.ErrClosed)

	_, err := storage.ListDueBetween(ctx, time.Now(), time.Now())
	assert.ErrorIs(t, err, repository.ErrClosed)
}

func TestNew_BadPath(t *testing.T) {
	_, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "tasks.db"))
	assert.Error(t, err)
}
