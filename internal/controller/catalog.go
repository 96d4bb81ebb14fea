package controller

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/events"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// CatalogOps are the gateway calls behind one reference-data table.
type CatalogOps[T any, In any] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, input In) (*T, error)
	Update func(ctx context.Context, id string, input In) (*T, error)
	Delete func(ctx context.Context, id string) error
}

// CatalogMessages are the alerts and prompts of one table.
type CatalogMessages struct {
	Invalid       string
	LoadFailed    string
	Created       string
	CreateFailed  string
	Updated       string
	UpdateFailed  string
	ConfirmDelete string
	Deleted       string
	DeleteFailed  string
}

// CatalogEvents are the journal events of one table.
type CatalogEvents struct {
	Created events.EventType
	Updated events.EventType
	Deleted events.EventType
}

// CatalogSpec describes one reference-data table.
type CatalogSpec[T any, In any] struct {
	Name     string
	Ops      CatalogOps[T, In]
	ID       func(T) string
	Label    func(T) string
	Validate func(input In, editMode bool) error
	Messages CatalogMessages
	Events   CatalogEvents
}

// Modal is the create/edit form state of a catalog.
type Modal[T any] struct {
	Open     bool
	EditMode bool
	Item     T
}

// Catalog is a list + create/edit form + confirmed delete over one table.
type Catalog[T any, In any] struct {
	lifecycle
	deps Deps
	spec CatalogSpec[T, In]

	mu    sync.Mutex
	state State
	items []T
	modal Modal[T]
}

// NewCatalog builds an idle catalog.
func NewCatalog[T any, In any](spec CatalogSpec[T, In], deps Deps) *Catalog[T, In] {
	return &Catalog[T, In]{
		lifecycle: newLifecycle(),
		deps:      deps.withDefaults(),
		spec:      spec,
		state:     StateIdle,
	}
}

// Load fetches the table.
func (c *Catalog[T, In]) Load(ctx context.Context) error {
	c.mu.Lock()
	previous := c.state
	c.state = StateLoading
	c.mu.Unlock()

	callCtx, cancel := c.bind(ctx)
	defer cancel()
	items, err := c.spec.Ops.List(callCtx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if stop := c.interrupted(err); stop != nil || err != nil {
		c.state = previous
		if c.state == StateLoading {
			c.state = StateIdle
		}
		if stop != nil {
			return stop
		}
		c.deps.Logger.Error("failed to load "+c.spec.Name, zap.Error(err))
		c.deps.Alerts.Alert(c.spec.Messages.LoadFailed)
		return apperrors.NewUpstreamError(c.spec.Messages.LoadFailed, err)
	}
	c.items = slices.Clone(items)
	c.state = StateReady
	return nil
}

// State returns the current state.
func (c *Catalog[T, In]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a copy of the table.
func (c *Catalog[T, In]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Find returns the row with id.
func (c *Catalog[T, In]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		return c.items[idx], true
	}
	var zero T
	return zero, false
}

// Modal returns the form state.
func (c *Catalog[T, In]) Modal() Modal[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal
}

// OpenCreate opens an empty form.
func (c *Catalog[T, In]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.modal = Modal[T]{Open: true, Item: zero}
}

// OpenEdit opens the form pre-filled with row id.
func (c *Catalog[T, In]) OpenEdit(id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, apperrors.NewNotFound(c.spec.Name, map[string]any{"id": id})
	}
	c.modal = Modal[T]{Open: true, EditMode: true, Item: c.items[idx]}
	return c.items[idx], nil
}

// CloseModal closes the form.
func (c *Catalog[T, In]) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = Modal[T]{}
}

// Submit creates or updates depending on the form mode. The table changes
// only after the API confirmed.
func (c *Catalog[T, In]) Submit(ctx context.Context, input In) (*T, error) {
	c.mu.Lock()
	modal := c.modal
	c.mu.Unlock()

	if c.spec.Validate != nil {
		if err := c.spec.Validate(input, modal.EditMode); err != nil {
			msg := c.spec.Messages.Invalid
			if msg == "" {
				msg = MsgRequiredFields
			}
			c.deps.Alerts.Alert(msg)
			return nil, err
		}
	}
	if modal.EditMode {
		return c.update(ctx, c.spec.ID(modal.Item), input)
	}
	return c.create(ctx, input)
}

func (c *Catalog[T, In]) create(ctx context.Context, input In) (*T, error) {
	callCtx, cancel := c.bind(ctx)
	defer cancel()
	created, err := c.spec.Ops.Create(callCtx, input)
	return c.applyCreated(ctx, created, err)
}

// applyCreated appends a created row; shared with row-producing actions.
func (c *Catalog[T, In]) applyCreated(ctx context.Context, created *T, err error) (*T, error) {
	c.mu.Lock()
	if stop := c.interrupted(err); stop != nil {
		c.mu.Unlock()
		return nil, stop
	}
	if err != nil {
		c.mu.Unlock()
		if isUnauthorized(err) {
			return nil, err
		}
		c.deps.Logger.Error("failed to create "+c.spec.Name, zap.Error(err))
		c.deps.Alerts.Alert(c.spec.Messages.CreateFailed)
		return nil, apperrors.NewUpstreamError(c.spec.Messages.CreateFailed, err)
	}
	c.items = append(c.items, *created)
	c.modal = Modal[T]{}
	c.mu.Unlock()

	c.deps.Alerts.Alert(c.spec.Messages.Created)
	c.publish(ctx, c.spec.Events.Created, *created)
	return created, nil
}

func (c *Catalog[T, In]) update(ctx context.Context, id string, input In) (*T, error) {
	callCtx, cancel := c.bind(ctx)
	defer cancel()
	updated, err := c.spec.Ops.Update(callCtx, id, input)

	c.mu.Lock()
	if stop := c.interrupted(err); stop != nil {
		c.mu.Unlock()
		return nil, stop
	}
	if err != nil {
		c.mu.Unlock()
		if isUnauthorized(err) {
			return nil, err
		}
		c.deps.Logger.Error("failed to update "+c.spec.Name, zap.String("id", id), zap.Error(err))
		c.deps.Alerts.Alert(c.spec.Messages.UpdateFailed)
		return nil, apperrors.NewUpstreamError(c.spec.Messages.UpdateFailed, err)
	}
	if idx := c.indexOf(id); idx >= 0 {
		c.items[idx] = *updated
	}
	c.modal = Modal[T]{}
	c.mu.Unlock()

	c.deps.Alerts.Alert(c.spec.Messages.Updated)
	c.publish(ctx, c.spec.Events.Updated, *updated)
	return updated, nil
}

// Delete removes row id after confirmation. It reports whether it did.
func (c *Catalog[T, In]) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(c.spec.Messages.ConfirmDelete) {
		return false, nil
	}

	callCtx, cancel := c.bind(ctx)
	defer cancel()
	err := c.spec.Ops.Delete(callCtx, id)

	c.mu.Lock()
	if stop := c.interrupted(err); stop != nil {
		c.mu.Unlock()
		return false, stop
	}
	if err != nil {
		c.mu.Unlock()
		if isUnauthorized(err) {
			return false, err
		}
		c.deps.Logger.Error("failed to delete "+c.spec.Name, zap.String("id", id), zap.Error(err))
		c.deps.Alerts.Alert(c.spec.Messages.DeleteFailed)
		return false, apperrors.NewUpstreamError(c.spec.Messages.DeleteFailed, err)
	}
	c.items = slices.DeleteFunc(c.items, func(item T) bool { return c.spec.ID(item) == id })
	c.mu.Unlock()

	c.deps.Alerts.Alert(c.spec.Messages.Deleted)
	if c.spec.Events.Deleted != "" {
		c.deps.publish(ctx, c.spec.Events.Deleted, id, nil)
	}
	return true, nil
}

func (c *Catalog[T, In]) publish(ctx context.Context, eventType events.EventType, item T) {
	if eventType == "" {
		return
	}
	var payload any
	if c.spec.Label != nil {
		payload = events.NamedPayload{Name: c.spec.Label(item)}
	}
	c.deps.publish(ctx, eventType, c.spec.ID(item), payload)
}

func (c *Catalog[T, In]) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(item T) bool { return c.spec.ID(item) == id })
}
