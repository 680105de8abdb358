package service

import (
	"context"
	"fmt"
	"time"

	"taskManager/internal/apperr"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"

	"go.uber.org/zap"
)

// DefaultUpcomingDays is the window used by the "upcoming tasks" view.
const DefaultUpcomingDays = 3

// TaskService is the storage boundary. Write failures come back as StorageError with a zero id;
// read failures are logged and yield an empty result, so callers that need to tell "empty" from
// "unreachable" must call HealthCheck.
type TaskService struct {
	repo TaskRepository
	now  func() time.Time
	slow time.Duration
}

func NewTaskService(repo TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo: repo,
		now:  time.Now,
		slow: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the tasks table when missing. Its error is meant to stop the process.
func (s *TaskService) EnsureSchema(ctx context.Context) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		logger.Error("Service: Failed to prepare schema", err)
		return apperr.NewStorageError("ensure_schema", err)
	}
	logger.Info("Service: Table 'tasks' is ready")
	return nil
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("service health check: %w", apperr.NewStorageError("ping", err))
	}
	return nil
}

// AddTask writes t and returns the new id. A zero id always comes with an error.
func (s *TaskService) AddTask(ctx context.Context, t task.Task) (int64, error) {
	if err := t.Validate(); err != nil {
		logger.Warn("Service: Rejected invalid task", zap.String("title", t.Title), zap.Error(err))
		return 0, err
	}

	start := time.Now()
	id, err := s.repo.Insert(ctx, t)
	s.observe("insert", start)
	if err != nil {
		logger.Error("Service: Failed to insert task", err, zap.String("title", t.Title))
		return 0, apperr.NewStorageError("insert", err)
	}

	logger.Info("Service: Task inserted", zap.String("title", t.Title), zap.Int64("id", id))
	return id, nil
}

func (s *TaskService) ListAll(ctx context.Context) []task.Task {
	start := time.Now()
	tasks, err := s.repo.ListAll(ctx)
	s.observe("list_all", start)
	if err != nil {
		logger.Error("Service: Failed to list tasks", err)
		return []task.Task{}
	}
	return nonNil(tasks)
}

// ListDueWithin returns tasks due in [reference, reference+days], earliest first.
func (s *TaskService) ListDueWithin(ctx context.Context, days int, reference time.Time) []task.Task {
	if days < 0 {
		logger.Warn("Service: Negative upcoming window", zap.Int("days", days))
		return []task.Task{}
	}

	from := task.DateOf(reference)
	to := task.AddDays(from, days)

	start := time.Now()
	tasks, err := s.repo.ListDueBetween(ctx, from, to)
	s.observe("list_due_between", start)
	if err != nil {
		logger.Error("Service: Failed to list upcoming tasks", err,
			zap.String("from", task.FormatDate(from)),
			zap.String("to", task.FormatDate(to)))
		return []task.Task{}
	}
	return nonNil(tasks)
}

// Upcoming is ListDueWithin anchored on today.
func (s *TaskService) Upcoming(ctx context.Context, days int) []task.Task {
	return s.ListDueWithin(ctx, days, s.now())
}

func (s *TaskService) Close() error {
	if err := s.repo.Close(); err != nil {
		logger.Error("Service: Failed to close storage", err)
		return apperr.NewStorageError("close", err)
	}
	return nil
}

func (s *TaskService) observe(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > s.slow {
		logger.Warn("Service: Slow storage operation", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}

func nonNil(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}
