package pg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies goose migrations found in cfg.MigrationsPath.
// When migrations is not nil the path is resolved inside it, which is how
// packages ship their schema with go:embed; otherwise it is read from disk.
//
// goose keeps its settings in package globals, so Migrate must not run
// concurrently with itself.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, migrations fs.FS, log *slog.Logger) error {
	if cfg.MigrationsPath == "" {
		return errors.Join(ErrFailedToApplyMigrations, ErrMigrationPathNotProvided)
	}

	if migrations == nil {
		if _, err := os.Stat(cfg.MigrationsPath); err != nil {
			if os.IsNotExist(err) {
				return errors.Join(ErrMigrationsDirNotFound, err)
			}
			return errors.Join(ErrFailedToApplyMigrations, err)
		}
	} else if _, err := fs.Stat(migrations, cfg.MigrationsPath); err != nil {
		return errors.Join(ErrMigrationsDirNotFound, err)
	}

	// goose works on database/sql; this handle shares the pool's connections.
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration db handle", slog.Any("error", err))
		}
	}()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})
	goose.SetTableName(cfg.MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, cfg.MigrationsPath); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	ctx context.Context
	log *slog.Logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.ErrorContext(l.ctx, fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.InfoContext(l.ctx, fmt.Sprintf(format, v...))
}
