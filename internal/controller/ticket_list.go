package controller

import (
	"context"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// TicketList drives the home screen: the sorted ticket list, the selected
// ticket's detail and the admin actions on it.
type TicketList struct {
	lifecycle
	deps Deps
	api  TicketAPI

	mu        sync.Mutex
	state     State
	tickets   []domain.Ticket
	selected  *domain.Ticket
	listening bool
}

// NewTicketList builds an idle list controller.
func NewTicketList(api TicketAPI, deps Deps) *TicketList {
	return &TicketList{
		lifecycle: newLifecycle(),
		deps:      deps.withDefaults(),
		api:       api,
		state:     StateIdle,
	}
}

// SortTickets orders tickets by severity level, highest first, then by
// creation time, newest first. Equal keys keep their relative order.
func SortTickets(tickets []domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i], tickets[j]
		if a.Severity.Level != b.Severity.Level {
			return a.Severity.Level > b.Severity.Level
		}
		return a.CreatedAt.After(b.CreatedAt.Time)
	})
}

// Mount installs the dismiss listener. Calling it again is a no-op.
func (l *TicketList) Mount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.alive() {
		l.listening = true
	}
}

// Listening reports whether Escape and outside clicks reach the list.
func (l *TicketList) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listening
}

// Teardown removes the dismiss listener and discards in-flight results.
func (l *TicketList) Teardown() {
	l.mu.Lock()
	l.listening = false
	l.mu.Unlock()
	l.lifecycle.Teardown()
}

// Load fetches every ticket and replaces the list. A still-present selection
// is refreshed; a vanished one is cleared.
func (l *TicketList) Load(ctx context.Context) error {
	l.mu.Lock()
	previous := l.state
	l.state = StateLoading
	l.mu.Unlock()

	callCtx, cancel := l.bind(ctx)
	defer cancel()
	tickets, err := l.api.ListTickets(callCtx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if stop := l.interrupted(err); stop != nil || err != nil {
		l.state = previous
		if l.state == StateLoading {
			l.state = StateIdle
		}
		if stop != nil {
			return stop
		}
		l.deps.Logger.Error("failed to load tickets", zap.Error(err))
		l.deps.Alerts.Alert(MsgLoadTicketsFailed)
		return apperrors.NewUpstreamError(MsgLoadTicketsFailed, err)
	}

	sorted := slices.Clone(tickets)
	SortTickets(sorted)
	l.tickets = sorted

	l.state = StateReady
	if l.selected != nil {
		if idx := l.indexOf(l.selected.ID); idx >= 0 {
			fresh := l.tickets[idx]
			l.selected = &fresh
			l.state = previous
			if l.state != StateEditing {
				l.state = StateSelected
			}
		} else {
			l.selected = nil
		}
	}
	return nil
}

// Refresh re-fetches and re-sorts after a ticket was created elsewhere.
func (l *TicketList) Refresh(ctx context.Context) error {
	return l.Load(ctx)
}

// State returns the current state.
func (l *TicketList) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Tickets returns a copy of the sorted list.
func (l *TicketList) Tickets() []domain.Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.tickets)
}

// Selected returns the ticket shown in the detail pane.
func (l *TicketList) Selected() (domain.Ticket, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected == nil {
		return domain.Ticket{}, false
	}
	return *l.selected, true
}

// Editing reports whether the edit form is open.
func (l *TicketList) Editing() bool {
	return l.State() == StateEditing
}

// CanDelete reports whether the session may delete tickets.
func (l *TicketList) CanDelete() bool {
	return l.deps.Session.IsAdmin()
}

// CanGenerateComment reports whether the session may generate comments.
func (l *TicketList) CanGenerateComment() bool {
	return l.deps.Session.IsAdmin()
}

// Select shows the detail of ticket id.
func (l *TicketList) Select(id string) (domain.Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	ticket := l.tickets[idx]
	l.selected = &ticket
	l.state = StateSelected
	return ticket, nil
}

// OpenEdit selects ticket id and opens its edit form.
func (l *TicketList) OpenEdit(id string) (domain.Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	ticket := l.tickets[idx]
	l.selected = &ticket
	l.state = StateEditing
	return ticket, nil
}

// CloseEdit closes the edit form and keeps the selection.
func (l *TicketList) CloseEdit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateEditing {
		l.state = StateSelected
	}
}

// Dismiss clears the selection and closes the edit form. Escape and outside
// clicks only count while the listener is installed.
func (l *TicketList) Dismiss(reason DismissReason) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if reason != DismissClose && !l.listening {
		return false
	}
	if l.selected == nil && l.state != StateEditing {
		return false
	}
	l.selected = nil
	l.state = l.restingState()
	return true
}

// Delete removes ticket id after the staff member confirmed.
// It reports whether the ticket was deleted.
func (l *TicketList) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if !l.CanDelete() {
		return false, apperrors.NewForbidden(MsgAdminRequired)
	}
	if confirm == nil || !confirm.Confirm(MsgConfirmDeleteTicket) {
		return false, nil
	}

	callCtx, cancel := l.bind(ctx)
	defer cancel()
	err := l.api.DeleteTicket(callCtx, id)

	l.mu.Lock()
	if stop := l.interrupted(err); stop != nil {
		l.mu.Unlock()
		return false, stop
	}
	if err != nil {
		l.mu.Unlock()
		if isUnauthorized(err) {
			return false, err
		}
		l.deps.Logger.Error("failed to delete ticket", zap.String("ticket_id", id), zap.Error(err))
		l.deps.Alerts.Alert(MsgTicketDeleteFailed)
		return false, apperrors.NewUpstreamError(MsgTicketDeleteFailed, err)
	}
	l.tickets = slices.DeleteFunc(l.tickets, func(t domain.Ticket) bool { return t.ID == id })
	l.selected = nil
	l.state = l.restingState()
	l.mu.Unlock()

	l.deps.Alerts.Alert(MsgTicketDeleted)
	l.deps.publish(ctx, events.EventTicketDeleted, id, nil)
	return true, nil
}

// GenerateComment asks the API to write a comment for the selected ticket and
// patches only comment and comment_user locally.
func (l *TicketList) GenerateComment(ctx context.Context) (domain.Ticket, error) {
	if !l.CanGenerateComment() {
		return domain.Ticket{}, apperrors.NewForbidden(MsgAdminRequired)
	}
	l.mu.Lock()
	if l.selected == nil {
		l.mu.Unlock()
		return domain.Ticket{}, apperrors.NewValidationError("no ticket selected", nil)
	}
	id := l.selected.ID
	l.mu.Unlock()

	callCtx, cancel := l.bind(ctx)
	defer cancel()
	generated, err := l.api.GenerateComment(callCtx, id)

	l.mu.Lock()
	if stop := l.interrupted(err); stop != nil {
		l.mu.Unlock()
		return domain.Ticket{}, stop
	}
	if err != nil {
		l.mu.Unlock()
		if isUnauthorized(err) {
			return domain.Ticket{}, err
		}
		l.deps.Logger.Error("failed to generate comment", zap.String("ticket_id", id), zap.Error(err))
		l.deps.Alerts.Alert(MsgCommentFailed)
		return domain.Ticket{}, apperrors.NewUpstreamError(MsgCommentFailed, err)
	}

	var patched domain.Ticket
	if idx := l.indexOf(id); idx >= 0 {
		l.tickets[idx].Comment = generated.Comment
		l.tickets[idx].CommentUser = generated.CommentUser
		patched = l.tickets[idx]
	}
	if l.selected != nil && l.selected.ID == id {
		l.selected.Comment = generated.Comment
		l.selected.CommentUser = generated.CommentUser
		patched = *l.selected
	}
	l.mu.Unlock()

	l.deps.Alerts.Alert(MsgCommentGenerated)
	l.deps.publish(ctx, events.EventCommentGenerated, id, nil)
	return patched, nil
}

// ApplyUpdate merges an updated ticket, selects it and closes the edit form.
func (l *TicketList) ApplyUpdate(ticket domain.Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.alive() {
		return
	}
	if idx := l.indexOf(ticket.ID); idx >= 0 {
		l.tickets[idx] = ticket
	}
	l.selected = &ticket
	l.state = StateSelected
}

func (l *TicketList) indexOf(id string) int {
	return slices.IndexFunc(l.tickets, func(t domain.Ticket) bool { return t.ID == id })
}

// restingState is where the list goes once nothing is selected.
func (l *TicketList) restingState() State {
	if l.state == StateIdle || (l.state == StateLoading && l.tickets == nil) {
		return l.state
	}
	return StateReady
}
