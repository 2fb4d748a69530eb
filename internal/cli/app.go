package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/emiliopalmerini/sprintsheet/internal/adapters/storage"
	"github.com/emiliopalmerini/sprintsheet/internal/adapters/turso"
	"github.com/emiliopalmerini/sprintsheet/internal/config"
	"github.com/emiliopalmerini/sprintsheet/internal/database"
	"github.com/emiliopalmerini/sprintsheet/internal/migrate"
	"github.com/emiliopalmerini/sprintsheet/internal/ports"
	"github.com/emiliopalmerini/sprintsheet/internal/timesheet"
	"github.com/emiliopalmerini/sprintsheet/internal/util"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *timesheet.Store
	Archives ports.ArchiveRepository

	db *sql.DB
}

// NewAppContext builds the storage backend selected by cfg and loads the
// timesheet from it. With ephemeral set nothing is read or written.
func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, ephemeral bool) (*AppContext, error) {
	a := &AppContext{Config: cfg, Logger: logger}

	st, err := a.storage(ctx, ephemeral)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	opts, err := cfg.SummaryOptions()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Store = timesheet.New(st, timesheet.WithSummaryOptions(opts), timesheet.WithLogger(logger))
	a.Store.Initialize(ctx)
	return a, nil
}

func (a *AppContext) storage(ctx context.Context, ephemeral bool) (ports.Storage, error) {
	if ephemeral {
		return storage.NewNoOp(), nil
	}

	switch a.Config.Storage {
	case config.StorageNone:
		return storage.NewNoOp(), nil
	case config.StorageFile:
		st, err := storage.NewFile(a.Config.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		return st, nil
	default:
		db, err := a.Database(ctx)
		if err != nil {
			return nil, err
		}
		repos := turso.NewRepositories(db)
		a.Archives = repos.Archives
		return repos.Storage, nil
	}
}

// Database opens the libsql database on first use and applies pending
// migrations.
func (a *AppContext) Database(ctx context.Context) (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	if !database.IsRemote(a.Config.Database.URL) {
		if err := util.EnsureDir(a.Config.DataDir); err != nil {
			return nil, err
		}
	}

	db, err := database.Open(a.Config.Database.URL, a.Config.Database.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a.Logger.Debug("database ready", "remote", database.IsRemote(a.Config.Database.URL))
	a.db = db
	return db, nil
}

// ArchiveRepository returns the sprint archive, opening the database when
// needed. Archives live in libsql whatever the storage backend is.
func (a *AppContext) ArchiveRepository(ctx context.Context) (ports.ArchiveRepository, error) {
	if a.Archives != nil {
		return a.Archives, nil
	}
	db, err := a.Database(ctx)
	if err != nil {
		return nil, err
	}
	a.Archives = turso.NewArchiveRepository(db)
	return a.Archives, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
