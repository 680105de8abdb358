package service

import (
	"context"
	"time"

	"taskManager/internal/models/task"
)

// TaskRepository is implemented by every storage driver. Drivers report failures;
// TaskService decides how they surface.
type TaskRepository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, t task.Task) (int64, error)
	ListAll(ctx context.Context) ([]task.Task, error)
	// ListDueBetween returns tasks with from <= due_date <= to, ascending by due date.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]task.Task, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
