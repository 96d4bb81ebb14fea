package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-console/internal/api/http"
	"github.com/spec-kit/ticket-console/internal/apiclient"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/config"
	"github.com/spec-kit/ticket-console/internal/controller"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/observability"
	"github.com/spec-kit/ticket-console/internal/persistence"
	"github.com/spec-kit/ticket-console/internal/repository"
	"github.com/spec-kit/ticket-console/internal/service"
	"github.com/spec-kit/ticket-console/internal/session"
	"github.com/spec-kit/ticket-console/internal/worker"
	"github.com/spec-kit/ticket-console/internal/workspace"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the console HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var store session.Store = session.NewMemoryStore()
	if redis.Configured() {
		store = session.NewRedisStore(redis.Client, cfg.Redis.KeyPrefix)
	}

	sessions := auth.NewSessions(auth.SessionsConfig{
		Store:        store,
		Tokens:       auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL()),
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.SecureCookie,
		Logger:       logger,
	})

	client := apiclient.New(apiclient.Options{
		BaseURL:      cfg.API.BaseURL,
		ClientID:     cfg.API.ClientID,
		ClientSecret: cfg.API.ClientSecret,
		Scopes:       cfg.API.Scopes,
		Timeout:      cfg.API.Timeout(),
		Logger:       logger,
		Metrics:      metrics,
	})
	client.OnUnauthorized(func(ctx context.Context, sess *domain.Session) {
		if sess == nil {
			return
		}
		if err := sessions.End(context.WithoutCancel(ctx), sess.ID); err != nil {
			logger.Warn("failed to end rejected session", zap.Error(err))
		}
	})

	dispatcher := events.NewInMemoryDispatcher()

	var activityRepo repository.ActivityRepository
	if pg.Configured() {
		activityRepo = repository.NewActivityRepository(pg.PoolHandle())
	}
	activity := service.NewActivityService(dispatcher, activityRepo, logger)
	worker.StartActivityWorker(activity)

	registry := workspace.NewRegistry(func(sess *domain.Session) controller.Gateway {
		return client.Gateway(sess)
	}, logger, dispatcher)
	sessions.OnEnd(registry.Close)

	app := httptransport.NewServer(httptransport.ServerDeps{
		Name:           cfg.App.Name,
		Version:        cfg.App.Version,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
		Client:         client,
		Sessions:       sessions,
		Registry:       registry,
		Dispatcher:     dispatcher,
		Activity:       activity,
		Postgres:       pg,
		Redis:          redis,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("console listening", zap.String("addr", cfg.App.Addr()), zap.String("api", cfg.API.BaseURL))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("fiber listen: %w", err)
		}
		return nil
	}

	return app.Shutdown()
}
