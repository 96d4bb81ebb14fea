package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/config"
	"github.com/spec-kit/ticket-console/internal/observability"
	"github.com/spec-kit/ticket-console/internal/persistence"
)

var migrationsDir string

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the activity journal migrations",
	}
	cmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "directory holding the goose migrations (defaults to POSTGRES_MIGRATIONS_DIR)")

	cmd.AddCommand(newUpCommand(), newDownCommand(), newStatusCommand())
	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrationPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
				return persistence.RunMigrations(ctx, pool, dir, logger)
			})
		},
	}
}

func newDownCommand() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			return withMigrationPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
				return persistence.RollbackMigrations(ctx, pool, dir, steps, logger)
			})
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrationPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
				return persistence.MigrationStatus(ctx, pool, dir, logger)
			})
		},
	}
}

type migrationFunc func(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error

func withMigrationPool(ctx context.Context, fn migrationFunc) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if migrationsDir != "" {
		cfg.Postgres.MigrationsDir = migrationsDir
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN must be set to run migrations")
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	return fn(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger)
}
