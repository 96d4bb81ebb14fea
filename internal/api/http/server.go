package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/http/handlers"
	"github.com/spec-kit/ticket-console/internal/api/http/views"
	"github.com/spec-kit/ticket-console/internal/apiclient"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/observability"
	"github.com/spec-kit/ticket-console/internal/persistence"
	"github.com/spec-kit/ticket-console/internal/render"
	"github.com/spec-kit/ticket-console/internal/service"
	"github.com/spec-kit/ticket-console/internal/workspace"
)

// ServerDeps are the collaborators the console's HTTP surface is built from.
type ServerDeps struct {
	Name           string
	Version        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Client         *apiclient.Client
	Sessions       *auth.Sessions
	Registry       *workspace.Registry
	Dispatcher     events.Dispatcher
	Activity       *service.ActivityService
	Postgres       *persistence.Postgres
	Redis          *persistence.Redis
}

// NewServer assembles the fiber app: views, middlewares and routes.
func NewServer(deps ServerDeps) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	app := fiber.New(fiber.Config{
		AppName:               deps.Name,
		Views:                 views.NewEngine(render.NewMarkdown()),
		DisableStartupMessage: true,
		Immutable:             true,
	})
	RegisterMiddlewares(app, logger, metrics, deps.Sessions, deps.RequestTimeout)

	base := handlers.NewBase(deps.Registry, logger)
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler(deps.Name, deps.Version, deps.Postgres, deps.Redis, deps.Client),
		Auth:        handlers.NewAuthHandler(deps.Client, deps.Sessions, deps.Dispatcher, logger),
		Tickets:     handlers.NewTicketsHandler(base),
		TicketForms: handlers.NewTicketFormsHandler(base),
		Severities:  handlers.NewSeveritiesHandler(base),
		Categories:  handlers.NewCategoriesHandler(base),
		Users:       handlers.NewUsersHandler(base),
		Activity:    handlers.NewActivityHandler(base, deps.Activity),
		Guard:       auth.NewSessionGuard(deps.Sessions),
		Metrics:     metrics,
	})
	return app
}
