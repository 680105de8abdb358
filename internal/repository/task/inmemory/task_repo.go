package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
)

// TaskStorage keeps tasks for the lifetime of the process; ids start at 1 and are never reused.
type TaskStorage struct {
	storage map[int64]task.Task
	mtx     *sync.RWMutex
	ids     []int64
	nextID  int64
	closed  bool
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		nextID:  1,
	}
}

// EnsureSchema has nothing to create.
func (s *TaskStorage) EnsureSchema(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return repo.ErrClosed
	}
	return nil
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return repo.ErrClosed
	}
	logger.Debug("Repository: In-memory storage is available")
	return nil
}

func (s *TaskStorage) Insert(ctx context.Context, taskToCreate task.Task) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return 0, repo.ErrClosed
	}

	id := s.nextID
	s.nextID++

	s.storage[id] = taskToCreate.WithID(id)
	s.ids = append(s.ids, id)
	return id, nil
}

// ListAll returns tasks in insertion order.
func (s *TaskStorage) ListAll(ctx context.Context) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return nil, repo.ErrClosed
	}

	res := make([]task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id])
	}
	return res, nil
}

func (s *TaskStorage) ListDueBetween(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return nil, repo.ErrClosed
	}

	res := []task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.DueDate.Before(from) || t.DueDate.After(to) {
			continue
		}
		res = append(res, t)
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].DueDate.Equal(res[j].DueDate) {
			return res[i].ID < res[j].ID
		}
		return res[i].DueDate.Before(res[j].DueDate)
	})
	return res, nil
}

func (s *TaskStorage) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.closed = true
	logger.Info("Repository: In-memory storage closed")
	return nil
}
