package app

import (
	"context"
	"fmt"
	"io"

	"taskManager/internal/config"
	"taskManager/internal/console"
	"taskManager/internal/logger"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/repository/task/mysql"
	"taskManager/internal/repository/task/postgres"
	"taskManager/internal/repository/task/sqlite"
	"taskManager/internal/service"
	"taskManager/internal/transfer"

	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	repository service.TaskRepository
	service    *service.TaskService
	transfer   *transfer.Transfer
	shutdowns  []func()
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init wires logger, storage, service and transfer. On failure the hooks
// registered so far have already run.
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Shutting down logging...")
		logger.Sync()
	})

	repo, err := OpenRepository(ctx, a.config.Database)
	if err != nil {
		logger.Error("App: Cannot open storage", err, zap.String("driver", a.config.Database.Driver))
		a.Shutdown()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.repository = repo
	a.service = service.NewTaskService(repo)
	a.shutdowns = append(a.shutdowns, func() {
		if err := a.service.Close(); err != nil {
			logger.Warn("App: Storage close failed", zap.Error(err))
		}
	})

	if err := a.service.EnsureSchema(ctx); err != nil {
		logger.Error("App: Schema setup failed", err)
		a.Shutdown()
		return nil, err
	}

	a.transfer = transfer.New(a.service, a.config.Transfer.File)

	logger.Info("App: Initialized",
		zap.String("driver", a.config.Database.Driver),
		zap.String("transfer_file", a.config.Transfer.File))
	return a, nil
}

// OpenRepository opens the single connection for the configured driver.
func OpenRepository(ctx context.Context, db config.DatabaseConfig) (service.TaskRepository, error) {
	switch db.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, postgres.ConnString(db.Addr(), db.User, db.Password, db.Database))
	case config.DriverMySQL:
		return mysql.New(ctx, mysql.DSN(db.Addr(), db.User, db.Password, db.Database))
	case config.DriverSQLite:
		return sqlite.New(ctx, db.Path)
	case config.DriverInMemory:
		return inmemory.NewTaskStorage(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", db.Driver)
	}
}

func (a *App) Service() *service.TaskService {
	return a.service
}

func (a *App) Transfer() *transfer.Transfer {
	return a.transfer
}

func (a *App) UpcomingDays() int {
	return a.config.Upcoming.Days
}

func (a *App) Menu(in io.Reader, out io.Writer) *console.Menu {
	return console.NewMenu(a.service, a.transfer, a.UpcomingDays(), in, out)
}

// Shutdown runs the registered hooks newest first. Calling it twice is a no-op.
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
