package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations applies the pending goose migrations of dir.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}
	return withGoose(pool, logger, func(db *sql.DB) error {
		from, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		to, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}
		logger.Info("migrations applied", zap.String("dir", dir), zap.Int64("from_version", from), zap.Int64("to_version", to))
		return nil
	})
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(ctx context.Context, pool *pgxpool.Pool, dir string, steps int, logger *zap.Logger) error {
	if pool == nil {
		return fmt.Errorf("postgres is not configured")
	}
	return withGoose(pool, logger, func(db *sql.DB) error {
		for i := 0; i < steps; i++ {
			if err := goose.DownContext(ctx, db, dir); err != nil {
				return fmt.Errorf("failed to run down migration: %w", err)
			}
		}
		logger.Info("migrations rolled back", zap.Int("steps", steps))
		return nil
	})
}

// MigrationStatus prints every migration of dir with its applied state.
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
	if pool == nil {
		return fmt.Errorf("postgres is not configured")
	}
	return withGoose(pool, logger, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, dir)
	})
}

func withGoose(pool *pgxpool.Pool, logger *zap.Logger, fn func(db *sql.DB) error) error {
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return fn(db)
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}
