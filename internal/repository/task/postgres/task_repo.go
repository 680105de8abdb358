package postgres

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL CHECK (title <> ''),
	description TEXT,
	status VARCHAR(50) NOT NULL,
	due_date DATE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
`

// Storage holds one connection for the whole process. There is no pool and no reconnect:
// once the connection is gone every call fails until restart.
type Storage struct {
	conn *pgx.Conn
}

func New(ctx context.Context, connString string) (*Storage, error) {
	config, err := pgx.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Failed to parse connection config", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Failed to connect to PostgreSQL", err)
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		logger.Error("Repository: Ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: Connected to PostgreSQL", zap.String("host", config.Host), zap.String("database", config.Database))
	return &Storage{conn: conn}, nil
}

// ConnString builds a postgres:// URL from discrete parameters.
func ConnString(host, user, password, database string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   host,
		Path:   "/" + database,
	}
	return u.String()
}

func (s *Storage) Close() error {
	if s.conn.IsClosed() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.conn.Close(ctx); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	logger.Info("Repository: PostgreSQL connection closed")
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if s.conn.IsClosed() {
		return repo.ErrClosed
	}
	if err := s.conn.Ping(ctx); err != nil {
		logger.Error("Repository: Ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	logger.Debug("Repository: Connection is stable")
	return nil
}

func (s *Storage) EnsureSchema(ctx context.Context) error {
	if s.conn.IsClosed() {
		return repo.ErrClosed
	}
	if _, err := s.conn.Exec(ctx, schema); err != nil {
		logger.Error("Repository: Failed to create table 'tasks'", err)
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Storage) Insert(ctx context.Context, taskToCreate task.Task) (int64, error) {
	start := time.Now()

	if s.conn.IsClosed() {
		return 0, repo.ErrClosed
	}

	query := `INSERT INTO tasks
				(title, description, status, due_date)
				VALUES ($1, $2, $3, $4)
				RETURNING id`

	var id int64
	err := s.conn.QueryRow(ctx, query,
		taskToCreate.Title,
		taskToCreate.Description,
		string(taskToCreate.Status),
		taskToCreate.DueDate,
	).Scan(&id)

	if err != nil {
		logger.Error("Repository: Failed to insert task", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("insert task: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Slow query", zap.Duration("ms", time.Since(start)))
	}
	return id, nil
}

func (s *Storage) ListAll(ctx context.Context) ([]task.Task, error) {
	query := `SELECT
				id,
				title,
				COALESCE(description, ''),
				status,
				due_date
				FROM tasks
				ORDER BY id`

	return s.query(ctx, query)
}

func (s *Storage) ListDueBetween(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	query := `SELECT
				id,
				title,
				COALESCE(description, ''),
				status,
				due_date
				FROM tasks
				WHERE due_date BETWEEN $1 AND $2
				ORDER BY due_date ASC, id ASC`

	return s.query(ctx, query, from, to)
}

func (s *Storage) query(ctx context.Context, query string, args ...any) ([]task.Task, error) {
	start := time.Now()

	if s.conn.IsClosed() {
		return nil, repo.ErrClosed
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Failed to query tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var (
			t      task.Task
			status string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &t.DueDate); err != nil {
			logger.Error("Repository: Failed to scan task", err)
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Status = task.Status(status)
		t.DueDate = task.DateOf(t.DueDate)
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Failed to iterate rows", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Slow query", zap.Duration("ms", time.Since(start)))
	}
	return tasks, nil
}
