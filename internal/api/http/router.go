package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/ticket-console/internal/api/http/handlers"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Tickets     *handlers.TicketsHandler
	TicketForms *handlers.TicketFormsHandler
	Severities  *handlers.SeveritiesHandler
	Categories  *handlers.CategoriesHandler
	Users       *handlers.UsersHandler
	Activity    *handlers.ActivityHandler
	Guard       *auth.SessionGuard
	Metrics     *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	app.Get(auth.LoginPath, cfg.Auth.LoginPage)
	app.Post(auth.LoginPath, cfg.Auth.Login)

	protected := app.Group("", cfg.Guard.Handle)
	protected.Post("/logout", cfg.Auth.Logout)

	protected.Get("/", cfg.Tickets.Index)
	protected.Post("/tickets/select/:id", cfg.Tickets.Select)
	protected.Post("/tickets/dismiss", cfg.Tickets.Dismiss)
	cfg.TicketForms.Register(protected)
	protected.Post("/tickets/:id/delete", cfg.Tickets.Delete)
	protected.Post("/tickets/:id/comment", cfg.Tickets.Comment)

	// Scope checks are mounted per prefix so unknown paths still 404.
	requireAdmin := auth.RequireScope(domain.ScopeAdmin)
	for _, prefix := range adminPrefixes {
		protected.Use(prefix, requireAdmin)
	}
	cfg.Severities.Register(protected)
	cfg.Categories.Register(protected)
	cfg.Users.Register(protected)
	if cfg.Activity != nil {
		protected.Get("/activity", cfg.Activity.Index)
	}
}

// adminPrefixes are the catalog screens reserved for the admin scope.
var adminPrefixes = []string{"/severities", "/categories", "/users", "/activity"}
