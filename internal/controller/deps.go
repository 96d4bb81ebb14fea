// Package controller holds the console's view models. Each controller owns
// the server data its screen shows, runs an explicit state machine and talks
// to the ticket API through small interfaces, independent of how the screen
// is rendered.
package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
)

// TicketAPI is the ticket slice of the API gateway.
type TicketAPI interface {
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
	CreateTicket(ctx context.Context, input domain.TicketCreate) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, id string, input domain.TicketUpdate) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
	GenerateComment(ctx context.Context, id string) (*domain.GeneratedComment, error)
}

// SeverityAPI is the severity slice of the API gateway.
type SeverityAPI interface {
	ListSeverities(ctx context.Context) ([]domain.Severity, error)
	CreateSeverity(ctx context.Context, input domain.SeverityInput) (*domain.Severity, error)
	UpdateSeverity(ctx context.Context, id string, input domain.SeverityInput) (*domain.Severity, error)
	DeleteSeverity(ctx context.Context, id string) error
}

// CategoryAPI covers categories and their subcategories.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, input domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	CreateSubcategory(ctx context.Context, input domain.SubcategoryInput) (*domain.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id, name string) (*domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string) error
}

// UserAPI is the user slice of the API gateway.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input domain.UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	CreateRandomUser(ctx context.Context) (*domain.User, error)
}

// Gateway is everything the console needs from the ticket API.
type Gateway interface {
	TicketAPI
	SeverityAPI
	CategoryAPI
	UserAPI
}

// Alerter shows a blocking message to the staff member.
type Alerter interface {
	Alert(message string)
}

// Confirmer asks the staff member a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed answers yes to every prompt.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// Declined answers no to every prompt.
var Declined Confirmer = ConfirmFunc(func(string) bool { return false })

// Deps bundles what every controller shares.
type Deps struct {
	Session *domain.Session
	Alerts  Alerter
	Logger  *zap.Logger
	Events  events.Dispatcher
}

func (d Deps) withDefaults() Deps {
	if d.Alerts == nil {
		d.Alerts = AlertFunc(func(string) {})
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

func (d Deps) publish(ctx context.Context, eventType events.EventType, entityID string, payload any) {
	if d.Events == nil {
		return
	}
	_ = d.Events.Publish(ctx, events.NewEvent(eventType, entityID, events.ActorFromSession(d.Session), payload))
}
