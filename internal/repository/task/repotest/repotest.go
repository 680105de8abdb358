// Package repotest holds the behaviour every task storage driver must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty repository with its schema ensured. Cleanup is the factory's job.
type Factory func(t *testing.T) service.TaskRepository

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustTask(t *testing.T, title, description string, status task.Status, due time.Time) task.Task {
	t.Helper()
	tk, err := task.New(title, due, task.WithDescription(description), task.WithStatus(status))
	require.NoError(t, err)
	return tk
}

func Run(t *testing.T, newRepo Factory) {
	t.Run("EnsureSchemaIsIdempotent", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		require.NoError(t, r.EnsureSchema(ctx))
		require.NoError(t, r.EnsureSchema(ctx))
		require.NoError(t, r.HealthCheck(ctx))
	})

	t.Run("EmptyListAll", func(t *testing.T) {
		r := newRepo(t)

		got, err := r.ListAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("InsertAssignsUniqueIDs", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		seen := map[int64]bool{}
		var last int64
		for _, title := range []string{"a", "b", "c"} {
			id, err := r.Insert(ctx, mustTask(t, title, "", task.StatusPending, date(2025, 1, 10)))
			require.NoError(t, err)
			assert.Positive(t, id)
			assert.Greater(t, id, last)
			assert.False(t, seen[id])
			seen[id] = true
			last = id
		}
	})

	t.Run("ListAllRoundTripsFields", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		input := []task.Task{
			mustTask(t, "Pay rent", "", task.StatusPending, date(2025, 1, 10)),
			mustTask(t, "Write report", "quarterly numbers, ñandú", task.StatusInProgress, date(2024, 2, 29)),
			mustTask(t, "Renew passport", "bring photos", task.StatusCompleted, date(2030, 12, 31)),
		}

		want := make([]task.Task, 0, len(input))
		for _, in := range input {
			id, err := r.Insert(ctx, in)
			require.NoError(t, err)
			want = append(want, in.WithID(id))
		}

		got, err := r.ListAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, want, got)
	})

	t.Run("ListDueBetweenIsClosedAndSorted", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		for _, in := range []task.Task{
			mustTask(t, "after window", "", task.StatusPending, date(2025, 1, 12)),
			mustTask(t, "upper bound", "", task.StatusPending, date(2025, 1, 11)),
			mustTask(t, "before window", "", task.StatusPending, date(2025, 1, 7)),
			mustTask(t, "lower bound", "", task.StatusCompleted, date(2025, 1, 8)),
			mustTask(t, "Pay rent", "", task.StatusPending, date(2025, 1, 10)),
		} {
			_, err := r.Insert(ctx, in)
			require.NoError(t, err)
		}

		got, err := r.ListDueBetween(ctx, date(2025, 1, 8), date(2025, 1, 11))
		require.NoError(t, err)

		titles := make([]string, 0, len(got))
		for _, tk := range got {
			titles = append(titles, tk.Title)
		}
		assert.Equal(t, []string{"lower bound", "Pay rent", "upper bound"}, titles)

		got, err = r.ListDueBetween(ctx, date(2025, 1, 20), date(2025, 1, 23))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("OperationsFailAfterClose", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		require.NoError(t, r.Close())

		_, err := r.Insert(ctx, mustTask(t, "late", "", task.StatusPending, date(2025, 1, 10)))
		assert.Error(t, err)

		_, err = r.ListAll(ctx)
		assert.Error(t, err)

		assert.Error(t, r.HealthCheck(ctx))
	})
}
