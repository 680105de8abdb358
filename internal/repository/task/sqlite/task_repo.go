package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL CHECK (title <> ''),
	description TEXT,
	status TEXT NOT NULL,
	due_date DATE NOT NULL
)`

const index = `CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)`

// row maps the tasks table; it never leaves this package.
type row struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Status      string    `gorm:"column:status"`
	DueDate     time.Time `gorm:"column:due_date"`
}

func (row) TableName() string {
	return "tasks"
}

func (r row) toTask() task.Task {
	return task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      task.Status(r.Status),
		DueDate:     task.DateOf(r.DueDate),
	}
}

// Storage is a GORM handle limited to one open connection, which also keeps
// ":memory:" databases alive for the life of the handle.
type Storage struct {
	db     *gorm.DB
	closed bool
}

func New(ctx context.Context, path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("Repository: Failed to open SQLite database", err, zap.String("path", path))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		logger.Error("Repository: Ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: Opened SQLite database", zap.String("path", path))
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.closed {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sqlite handle: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	s.closed = true
	logger.Info("Repository: SQLite database closed")
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if s.closed {
		return repo.ErrClosed
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sqlite handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: Ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	logger.Debug("Repository: Connection is stable")
	return nil
}

func (s *Storage) EnsureSchema(ctx context.Context) error {
	if s.closed {
		return repo.ErrClosed
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(schema).Error; err != nil {
			return err
		}
		return tx.Exec(index).Error
	})
	if err != nil {
		logger.Error("Repository: Failed to create table 'tasks'", err)
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Storage) Insert(ctx context.Context, taskToCreate task.Task) (int64, error) {
	start := time.Now()

	if s.closed {
		return 0, repo.ErrClosed
	}

	r := row{
		Title:       taskToCreate.Title,
		Description: taskToCreate.Description,
		Status:      string(taskToCreate.Status),
		DueDate:     task.DateOf(taskToCreate.DueDate),
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		logger.Error("Repository: Failed to insert task", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("insert task: %w", err)
	}
	if r.ID == 0 {
		return 0, errors.New("insert task: no id assigned")
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Slow query", zap.Duration("ms", time.Since(start)))
	}
	return r.ID, nil
}

func (s *Storage) ListAll(ctx context.Context) ([]task.Task, error) {
	if s.closed {
		return nil, repo.ErrClosed
	}
	return s.find(s.db.WithContext(ctx).Order("id"))
}

func (s *Storage) ListDueBetween(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	if s.closed {
		return nil, repo.ErrClosed
	}
	q := s.db.WithContext(ctx).
		Where("due_date BETWEEN ? AND ?", task.DateOf(from), task.DateOf(to)).
		Order("due_date ASC").
		Order("id ASC")
	return s.find(q)
}

func (s *Storage) find(q *gorm.DB) ([]task.Task, error) {
	start := time.Now()

	var rows []row
	if err := q.Select("id, title, COALESCE(description, '') AS description, status, due_date").Find(&rows).Error; err != nil {
		logger.Error("Repository: Failed to query tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toTask())
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Slow query", zap.Duration("ms", time.Since(start)))
	}
	return tasks, nil
}
