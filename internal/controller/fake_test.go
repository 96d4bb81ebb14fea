package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/ticket-console/internal/domain"
)

var errBoom = errors.New("boom")

// fakeGateway records calls and serves canned data.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	tickets       []domain.Ticket
	severities    []domain.Severity
	categories    []domain.Category
	subcategories map[string][]domain.Subcategory
	users         []domain.User

	createTicketErr error
	updateTicketErr error
	deleteErr       error
	listErr         error
	generated       domain.GeneratedComment

	lastCreate domain.TicketCreate
	lastUpdate domain.TicketUpdate
	nextID     int

	// block, when set, holds list calls until released or cancelled.
	block chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{subcategories: map[string][]domain.Subcategory{}}
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) id(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("%s-new-%d", prefix, f.nextID)
}

func (f *fakeGateway) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeGateway) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	f.record("ListTickets")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Ticket(nil), f.tickets...), nil
}

func (f *fakeGateway) CreateTicket(_ context.Context, input domain.TicketCreate) (*domain.Ticket, error) {
	f.record("CreateTicket")
	f.lastCreate = input
	if f.createTicketErr != nil {
		return nil, f.createTicketErr
	}
	ticket := domain.Ticket{ID: f.id("t"), Title: input.Title, Description: input.Description, Status: input.Status}
	f.tickets = append(f.tickets, ticket)
	return &ticket, nil
}

func (f *fakeGateway) UpdateTicket(_ context.Context, id string, input domain.TicketUpdate) (*domain.Ticket, error) {
	f.record("UpdateTicket")
	f.lastUpdate = input
	if f.updateTicketErr != nil {
		return nil, f.updateTicketErr
	}
	return &domain.Ticket{ID: id, Title: input.Title, Description: input.Description, Status: input.Status}, nil
}

func (f *fakeGateway) DeleteTicket(_ context.Context, id string) error {
	f.record("DeleteTicket:" + id)
	return f.deleteErr
}

func (f *fakeGateway) GenerateComment(_ context.Context, id string) (*domain.GeneratedComment, error) {
	f.record("GenerateComment:" + id)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	generated := f.generated
	return &generated, nil
}

func (f *fakeGateway) ListSeverities(context.Context) ([]domain.Severity, error) {
	f.record("ListSeverities")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Severity(nil), f.severities...), nil
}

func (f *fakeGateway) CreateSeverity(_ context.Context, input domain.SeverityInput) (*domain.Severity, error) {
	f.record("CreateSeverity")
	return &domain.Severity{ID: f.id("s"), Level: input.Level, Description: input.Description}, nil
}

func (f *fakeGateway) UpdateSeverity(_ context.Context, id string, input domain.SeverityInput) (*domain.Severity, error) {
	f.record("UpdateSeverity:" + id)
	return &domain.Severity{ID: id, Level: input.Level, Description: input.Description}, nil
}

func (f *fakeGateway) DeleteSeverity(_ context.Context, id string) error {
	f.record("DeleteSeverity:" + id)
	return f.deleteErr
}

func (f *fakeGateway) ListCategories(ctx context.Context) ([]domain.Category, error) {
	f.record("ListCategories")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Category(nil), f.categories...), nil
}

func (f *fakeGateway) CreateCategory(_ context.Context, input domain.CategoryInput) (*domain.Category, error) {
	f.record("CreateCategory")
	return &domain.Category{ID: f.id("c"), Name: input.Name}, nil
}

func (f *fakeGateway) UpdateCategory(_ context.Context, id string, input domain.CategoryInput) (*domain.Category, error) {
	f.record("UpdateCategory:" + id)
	return &domain.Category{ID: id, Name: input.Name}, nil
}

func (f *fakeGateway) DeleteCategory(_ context.Context, id string) error {
	f.record("DeleteCategory:" + id)
	return f.deleteErr
}

func (f *fakeGateway) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	f.record("ListSubcategories:" + categoryID)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Subcategory(nil), f.subcategories[categoryID]...), nil
}

func (f *fakeGateway) CreateSubcategory(_ context.Context, input domain.SubcategoryInput) (*domain.Subcategory, error) {
	f.record("CreateSubcategory:" + input.CategoryID)
	return &domain.Subcategory{ID: f.id("sub"), Name: input.Name, CategoryID: input.CategoryID}, nil
}

func (f *fakeGateway) UpdateSubcategory(_ context.Context, id, name string) (*domain.Subcategory, error) {
	f.record("UpdateSubcategory:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	for categoryID, subs := range f.subcategories {
		for i := range subs {
			if subs[i].ID == id {
				subs[i].Name = name
				f.subcategories[categoryID] = subs
				return &subs[i], nil
			}
		}
	}
	return &domain.Subcategory{ID: id, Name: name}, nil
}

func (f *fakeGateway) DeleteSubcategory(_ context.Context, id string) error {
	f.record("DeleteSubcategory:" + id)
	return f.deleteErr
}

func (f *fakeGateway) ListUsers(context.Context) ([]domain.User, error) {
	f.record("ListUsers")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeGateway) CreateUser(_ context.Context, input domain.UserInput) (*domain.User, error) {
	f.record("CreateUser")
	return &domain.User{ID: f.id("u"), Name: input.Name, Username: input.Username, Email: input.Email, Role: input.Role}, nil
}

func (f *fakeGateway) UpdateUser(_ context.Context, id string, input domain.UserInput) (*domain.User, error) {
	f.record("UpdateUser:" + id)
	return &domain.User{ID: id, Name: input.Name, Username: input.Username, Email: input.Email, Role: input.Role}, nil
}

func (f *fakeGateway) DeleteUser(_ context.Context, id string) error {
	f.record("DeleteUser:" + id)
	return f.deleteErr
}

func (f *fakeGateway) CreateRandomUser(context.Context) (*domain.User, error) {
	f.record("CreateRandomUser")
	return &domain.User{ID: f.id("u"), Name: "Random", Username: "random", Role: domain.UserRoleUser}, nil
}

// alertLog collects alerts in order.
type alertLog struct {
	mu       sync.Mutex
	messages []string
}

func (a *alertLog) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

func (a *alertLog) All() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

func (a *alertLog) Last() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.messages) == 0 {
		return ""
	}
	return a.messages[len(a.messages)-1]
}

var adminSession = &domain.Session{ID: "sess-admin", Token: "tok", Role: "admin", Scopes: []string{"admin"}}

var userSession = &domain.Session{ID: "sess-user", Token: "tok", Role: "user", Scopes: []string{"user"}}

func testDeps(session *domain.Session, alerts *alertLog) Deps {
	return Deps{Session: session, Alerts: alerts}
}

func at(minute int) domain.Timestamp {
	return domain.NewTimestamp(time.Date(2024, 5, 1, 12, minute, 0, 0, time.UTC))
}

func ticketWithLevel(id string, level int, created domain.Timestamp) domain.Ticket {
	return domain.Ticket{
		ID:          id,
		Title:       "Ticket " + id,
		Description: "desc " + id,
		Severity:    domain.Severity{ID: "sev-" + id, Level: level, Description: "level"},
		Status:      domain.TicketStatusOpen,
		CreatedAt:   created,
	}
}
