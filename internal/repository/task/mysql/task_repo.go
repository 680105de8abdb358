package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	driver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INT AUTO_INCREMENT PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT,
	status VARCHAR(50) NOT NULL,
	due_date DATE NOT NULL,
	CONSTRAINT chk_tasks_title CHECK (title <> ''),
	INDEX idx_tasks_due_date (due_date)
) DEFAULT CHARSET = utf8mb4`

// Storage pins a single *sql.Conn taken from a pool capped at one connection.
// database/sql would transparently redial on a fresh query; the pinned conn does not,
// so a dropped connection stays dropped.
type Storage struct {
	db   *sql.DB
	conn *sql.Conn
}

// DSN builds a go-sql-driver DSN for the {host, user, password, database} parameters.
func DSN(addr, user, password, database string) string {
	cfg := driver.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.DBName = database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func New(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		logger.Error("Repository: Failed to open MySQL handle", err)
		return nil, fmt.Errorf("open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		logger.Error("Repository: Failed to connect to MySQL", err)
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		logger.Error("Repository: Ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: Connected to MySQL")
	return &Storage{db: db, conn: conn}, nil
}

func (s *Storage) Close() error {
	connErr := s.conn.Close()
	if errors.Is(connErr, sql.ErrConnDone) {
		connErr = nil
	}
	dbErr := s.db.Close()
	if err := errors.Join(connErr, dbErr); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	logger.Info("Repository: MySQL connection closed")
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		logger.Error("Repository: Ping failed", err)
		return fmt.Errorf("ping: %w", closedOr(err))
	}
	logger.Debug("Repository: Connection is stable")
	return nil
}

func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		logger.Error("Repository: Failed to create table 'tasks'", err)
		return fmt.Errorf("create schema: %w", closedOr(err))
	}
	return nil
}

func (s *Storage) Insert(ctx context.Context, taskToCreate task.Task) (int64, error) {
	start := time.Now()

	query := `INSERT INTO tasks (title, description, status, due_date) VALUES (?, ?, ?, ?)`

	res, err := s.conn.ExecContext(ctx, query,
		taskToCreate.Title,
		taskToCreate.Description,
		string(taskToCreate.Status),
		task.FormatDate(taskToCreate.DueDate),
	)
	if err != nil {
		logger.Error("Repository: Failed to insert task", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("insert task: %w", closedOr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Slow query", zap.Duration("ms", time.Since(start)))
	}
	return id, nil
}

func (s *Storage) ListAll(ctx context.Context) ([]task.Task, error) {
	query := `SELECT id, title, COALESCE(description, ''), status, due_date
				FROM tasks
				ORDER BY id`

	return s.query(ctx, query)
}

func (s *Storage) ListDueBetween(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	query := `SELECT id, title, COALESCE(description, ''), status, due_date
				FROM tasks
				WHERE due_date BETWEEN ? AND ?
				ORDER BY due_date ASC, id ASC`

	return s.query(ctx, query, task.FormatDate(from), task.FormatDate(to))
}

func (s *Storage) query(ctx context.Context, query string, args ...any) ([]task.Task, error) {
	start := time.Now()

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Failed to query tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("query tasks: %w", closedOr(err))
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

func closedOr(err error) error {
	if errors.Is(err, sql.ErrConnDone) {
		return repo.ErrClosed
	}
	return err
}
