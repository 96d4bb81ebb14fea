// Package workspace keeps the controllers of each signed-in session alive
// between requests and tears them down when the session ends.
package workspace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/controller"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
)

// GatewayFunc binds the ticket API to a session.
type GatewayFunc func(session *domain.Session) controller.Gateway

// Workspace is one session's set of screens.
type Workspace struct {
	Session    *domain.Session
	Flash      *Flash
	Tickets    *controller.TicketList
	Severities *controller.SeverityCatalog
	Categories *controller.CategoryCatalog
	Users      *controller.UserCatalog

	gateway controller.Gateway
	deps    controller.Deps

	mu     sync.Mutex
	create *controller.TicketCreate
	edit   *controller.TicketEdit
	closed bool
}

func newWorkspace(session *domain.Session, gateway controller.Gateway, logger *zap.Logger, dispatcher events.Dispatcher) *Workspace {
	flash := &Flash{}
	deps := controller.Deps{
		Session: session,
		Alerts:  flash,
		Logger:  logger.With(zap.String("session_id", session.ID)),
		Events:  dispatcher,
	}
	w := &Workspace{
		Session:    session,
		Flash:      flash,
		Tickets:    controller.NewTicketList(gateway, deps),
		Severities: controller.NewSeverityCatalog(gateway, deps),
		Categories: controller.NewCategoryCatalog(gateway, deps),
		Users:      controller.NewUserCatalog(gateway, deps),
		gateway:    gateway,
		deps:       deps,
	}
	w.Tickets.Mount()
	return w
}

// BeginCreate opens a fresh creation form, discarding any previous one.
func (w *Workspace) BeginCreate() *controller.TicketCreate {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.create != nil {
		w.create.Teardown()
	}
	w.create = controller.NewTicketCreate(w.gateway, w.deps, w.Tickets.Refresh)
	return w.create
}

// Create returns the open creation form.
func (w *Workspace) Create() (*controller.TicketCreate, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.create == nil || isDone(w.create.Done()) {
		return nil, false
	}
	return w.create, true
}

// EndCreate closes the creation form.
func (w *Workspace) EndCreate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.create != nil {
		w.create.Teardown()
		w.create = nil
	}
}

// BeginEdit opens the edit form of ticket, discarding any previous one.
func (w *Workspace) BeginEdit(ticket domain.Ticket) *controller.TicketEdit {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.edit != nil {
		w.edit.Teardown()
	}
	w.edit = controller.NewTicketEdit(ticket, w.gateway, w.deps, w.Tickets.ApplyUpdate)
	return w.edit
}

// Edit returns the open edit form of ticketID.
func (w *Workspace) Edit(ticketID string) (*controller.TicketEdit, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.edit == nil || w.edit.TicketID() != ticketID || isDone(w.edit.Done()) {
		return nil, false
	}
	return w.edit, true
}

// EndEdit closes the edit form.
func (w *Workspace) EndEdit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.edit != nil {
		w.edit.Teardown()
		w.edit = nil
	}
}

// Close tears every controller down. In-flight results are discarded.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.create != nil {
		w.create.Teardown()
	}
	if w.edit != nil {
		w.edit.Teardown()
	}
	w.Tickets.Teardown()
	w.Severities.Teardown()
	w.Categories.Teardown()
	w.Users.Teardown()
}

func isDone(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Registry maps session ids to workspaces.
type Registry struct {
	gateway    GatewayFunc
	logger     *zap.Logger
	dispatcher events.Dispatcher

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry builds an empty registry.
func NewRegistry(gateway GatewayFunc, logger *zap.Logger, dispatcher events.Dispatcher) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		gateway:    gateway,
		logger:     logger,
		dispatcher: dispatcher,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the session's workspace, creating it on first use.
func (r *Registry) Get(session *domain.Session) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.workspaces[session.ID]; ok {
		return w
	}
	w := newWorkspace(session, r.gateway(session), r.logger, r.dispatcher)
	r.workspaces[session.ID] = w
	return w
}

// Close tears down and forgets the session's workspace.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	w, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()
	if ok {
		w.Close()
		r.logger.Debug("workspace closed", zap.String("session_id", sessionID))
	}
}

// Len reports how many workspaces are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
