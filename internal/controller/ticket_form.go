package controller

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/apiclient"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// TicketFields are the inputs shared by the create and edit forms.
type TicketFields struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description" validate:"required"`
	SeverityID  string      `json:"severity_id" validate:"required"`
	Attachments Attachments `json:"categories" validate:"min=1"`
}

// TicketFormAPI is what a ticket form needs from the gateway.
type TicketFormAPI interface {
	TicketAPI
	SeverityAPI
	CategoryAPI
}

// ticketForm holds the state both ticket forms share: the fields, the
// freshly fetched severities and the nested category selector.
type ticketForm struct {
	lifecycle
	deps Deps
	api  TicketFormAPI

	mu         sync.Mutex
	fields     TicketFields
	severities []domain.Severity
	selector   *CategorySelector
}

func newTicketForm(api TicketFormAPI, deps Deps, fields TicketFields) ticketForm {
	deps = deps.withDefaults()
	return ticketForm{
		lifecycle: newLifecycle(),
		deps:      deps,
		api:       api,
		fields:    fields,
		selector:  NewCategorySelector(api, deps),
	}
}

// LoadSeverities fetches the severity options.
func (f *ticketForm) LoadSeverities(ctx context.Context) error {
	callCtx, cancel := f.bind(ctx)
	defer cancel()
	severities, err := f.api.ListSeverities(callCtx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if stop := f.interrupted(err); stop != nil {
		return stop
	}
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		f.deps.Logger.Error("failed to load severities", zap.Error(err))
		f.deps.Alerts.Alert(MsgLoadSeveritiesFailed)
		return apperrors.NewUpstreamError(MsgLoadSeveritiesFailed, err)
	}
	f.severities = severities
	return nil
}

// Severities returns the severity options.
func (f *ticketForm) Severities() []domain.Severity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.severities)
}

// Fields returns a copy of the current inputs.
func (f *ticketForm) Fields() TicketFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields := f.fields
	fields.Attachments = slices.Clone(f.fields.Attachments)
	return fields
}

// SetText replaces title and description.
func (f *ticketForm) SetText(title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Title = title
	f.fields.Description = description
}

// SetSeverity picks the severity by id.
func (f *ticketForm) SetSeverity(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.SeverityID = id
}

// AddAttachment appends an attachment without de-duplication.
func (f *ticketForm) AddAttachment(attachment Attachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Attachments = f.fields.Attachments.Add(attachment)
}

// RemoveAttachment drops every attachment of categoryID.
func (f *ticketForm) RemoveAttachment(categoryID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Attachments = f.fields.Attachments.Remove(categoryID)
}

// Selector exposes the nested category selector.
func (f *ticketForm) Selector() *CategorySelector {
	return f.selector
}

// ConfirmSelection moves the selector's picks into the attachments.
func (f *ticketForm) ConfirmSelection() error {
	attachment, err := f.selector.Confirm()
	if err != nil {
		return err
	}
	f.AddAttachment(attachment)
	return nil
}

// Teardown discards in-flight results of the form and its selector.
func (f *ticketForm) Teardown() {
	f.selector.Teardown()
	f.lifecycle.Teardown()
}

// validated checks the inputs; a failure alerts and blocks the network call.
func (f *ticketForm) validated() (TicketFields, error) {
	fields := f.Fields()
	if err := validateRequired(fields); err != nil {
		f.deps.Alerts.Alert(MsgRequiredFields)
		return fields, err
	}
	return fields, nil
}

func severityLevelOf(severities []domain.Severity, id string) int {
	for _, s := range severities {
		if s.ID == id {
			return s.Level
		}
	}
	return 0
}

// TicketCreate is the new-ticket form.
type TicketCreate struct {
	ticketForm
	onCreated func(ctx context.Context) error
}

// NewTicketCreate builds an empty creation form. onCreated runs after a
// successful submit, typically the list's Refresh.
func NewTicketCreate(api TicketFormAPI, deps Deps, onCreated func(ctx context.Context) error) *TicketCreate {
	return &TicketCreate{
		ticketForm: newTicketForm(api, deps, TicketFields{}),
		onCreated:  onCreated,
	}
}

// Submit validates and creates the ticket, then closes the form.
func (f *TicketCreate) Submit(ctx context.Context) (*domain.Ticket, error) {
	fields, err := f.validated()
	if err != nil {
		return nil, err
	}
	payload := domain.TicketCreate{
		Title:          fields.Title,
		Description:    fields.Description,
		CategoryIDs:    fields.Attachments.CategoryIDs(),
		SubcategoryIDs: fields.Attachments.SubcategoryIDs(),
		SeverityID:     fields.SeverityID,
		Status:         domain.TicketStatusOpen,
	}

	callCtx, cancel := f.bind(ctx)
	defer cancel()
	created, err := f.api.CreateTicket(callCtx, payload)
	if stop := f.interrupted(err); stop != nil {
		return nil, stop
	}
	if err != nil {
		if isUnauthorized(err) {
			return nil, err
		}
		f.deps.Alerts.Alert(MsgEmergencySupport)
		if isSeverityLevelOneRejection(err) {
			f.deps.Logger.Warn("ticket API refused a severity level 1 ticket")
			return nil, apperrors.NewBusinessRule(MsgEmergencySupport, err)
		}
		f.deps.Logger.Error("failed to create ticket", zap.Error(err))
		return nil, apperrors.NewUpstreamError(MsgEmergencySupport, err)
	}

	f.deps.Alerts.Alert(MsgTicketCreated)
	f.deps.publish(ctx, events.EventTicketCreated, created.ID, events.TicketPayload{
		Title:         created.Title,
		SeverityLevel: severityLevelOf(f.Severities(), fields.SeverityID),
		Status:        created.Status,
	})
	if f.onCreated != nil {
		if err := f.onCreated(ctx); err != nil {
			f.deps.Logger.Warn("refresh after create failed", zap.Error(err))
		}
	}
	f.Teardown()
	return created, nil
}

func isSeverityLevelOneRejection(err error) bool {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusBadRequest && apiErr.Detail == SeverityLevelOneDetail
}

// TicketEdit is the edit form of an existing ticket.
type TicketEdit struct {
	ticketForm
	ticketID  string
	status    domain.TicketStatus
	onUpdated func(domain.Ticket)
}

// NewTicketEdit pre-fills the form from ticket. onUpdated receives the
// updated ticket, typically the list's ApplyUpdate.
func NewTicketEdit(ticket domain.Ticket, api TicketFormAPI, deps Deps, onUpdated func(domain.Ticket)) *TicketEdit {
	fields := TicketFields{
		Title:       ticket.Title,
		Description: ticket.Description,
		SeverityID:  ticket.Severity.ID,
		Attachments: AttachmentsFromTicket(ticket),
	}
	status := ticket.Status
	if !status.Valid() {
		status = domain.TicketStatusOpen
	}
	return &TicketEdit{
		ticketForm: newTicketForm(api, deps, fields),
		ticketID:   ticket.ID,
		status:     status,
		onUpdated:  onUpdated,
	}
}

// TicketID is the ticket being edited.
func (f *TicketEdit) TicketID() string {
	return f.ticketID
}

// Status returns the picked status.
func (f *TicketEdit) Status() domain.TicketStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// SetStatus picks one of the enumerated statuses.
func (f *TicketEdit) SetStatus(status domain.TicketStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	return nil
}

// Submit validates and sends the partial update.
func (f *TicketEdit) Submit(ctx context.Context) (*domain.Ticket, error) {
	fields, err := f.validated()
	if err != nil {
		return nil, err
	}
	payload := domain.TicketUpdate{
		Title:          fields.Title,
		Description:    fields.Description,
		CategoryIDs:    fields.Attachments.CategoryIDs(),
		SubcategoryIDs: fields.Attachments.SubcategoryIDs(),
		SeverityID:     fields.SeverityID,
		Status:         f.Status(),
	}

	callCtx, cancel := f.bind(ctx)
	defer cancel()
	updated, err := f.api.UpdateTicket(callCtx, f.ticketID, payload)
	if stop := f.interrupted(err); stop != nil {
		return nil, stop
	}
	if err != nil {
		if isUnauthorized(err) {
			return nil, err
		}
		f.deps.Logger.Error("failed to update ticket", zap.String("ticket_id", f.ticketID), zap.Error(err))
		f.deps.Alerts.Alert(MsgTicketUpdateFailed)
		return nil, apperrors.NewUpstreamError(MsgTicketUpdateFailed, err)
	}

	f.deps.Alerts.Alert(MsgTicketUpdated)
	f.deps.publish(ctx, events.EventTicketUpdated, updated.ID, events.TicketPayload{
		Title:         updated.Title,
		SeverityLevel: updated.Severity.Level,
		Status:        updated.Status,
	})
	if f.onUpdated != nil {
		f.onUpdated(*updated)
	}
	f.Teardown()
	return updated, nil
}
