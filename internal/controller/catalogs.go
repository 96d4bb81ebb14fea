package controller

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// SeverityCatalog manages severities.
type SeverityCatalog = Catalog[domain.Severity, domain.SeverityInput]

// NewSeverityCatalog wires the severity table to the gateway.
func NewSeverityCatalog(api SeverityAPI, deps Deps) *SeverityCatalog {
	return NewCatalog(CatalogSpec[domain.Severity, domain.SeverityInput]{
		Name: "severity",
		Ops: CatalogOps[domain.Severity, domain.SeverityInput]{
			List:   api.ListSeverities,
			Create: api.CreateSeverity,
			Update: api.UpdateSeverity,
			Delete: api.DeleteSeverity,
		},
		ID:    func(s domain.Severity) string { return s.ID },
		Label: func(s domain.Severity) string { return s.Description },
		Validate: func(input domain.SeverityInput, _ bool) error {
			return validateRequired(input)
		},
		Messages: CatalogMessages{
			LoadFailed:    MsgLoadSeveritiesFailed,
			Created:       MsgSeverityCreated,
			CreateFailed:  MsgSeverityCreateFailed,
			Updated:       MsgSeverityUpdated,
			UpdateFailed:  MsgSeverityUpdateFailed,
			ConfirmDelete: MsgConfirmDeleteSeverity,
			Deleted:       MsgSeverityDeleted,
			DeleteFailed:  MsgSeverityDeleteFailed,
		},
		Events: CatalogEvents{
			Created: events.EventSeverityCreated,
			Updated: events.EventSeverityUpdated,
			Deleted: events.EventSeverityDeleted,
		},
	}, deps)
}

// UserCatalog manages staff accounts.
type UserCatalog struct {
	*Catalog[domain.User, domain.UserInput]
	api UserAPI
}

// NewUserCatalog wires the user table to the gateway.
func NewUserCatalog(api UserAPI, deps Deps) *UserCatalog {
	catalog := NewCatalog(CatalogSpec[domain.User, domain.UserInput]{
		Name: "user",
		Ops: CatalogOps[domain.User, domain.UserInput]{
			List:   api.ListUsers,
			Create: api.CreateUser,
			Update: api.UpdateUser,
			Delete: api.DeleteUser,
		},
		ID:       func(u domain.User) string { return u.ID },
		Label:    func(u domain.User) string { return u.Username },
		Validate: validateUserInput,
		Messages: CatalogMessages{
			Invalid:       MsgUserFieldsRequired,
			LoadFailed:    MsgLoadUsersFailed,
			Created:       MsgUserCreated,
			CreateFailed:  MsgUserCreateFailed,
			Updated:       MsgUserUpdated,
			UpdateFailed:  MsgUserUpdateFailed,
			ConfirmDelete: MsgConfirmDeleteUser,
			Deleted:       MsgUserDeleted,
			DeleteFailed:  MsgUserDeleteFailed,
		},
		Events: CatalogEvents{
			Created: events.EventUserCreated,
			Updated: events.EventUserUpdated,
			Deleted: events.EventUserDeleted,
		},
	}, deps)
	return &UserCatalog{Catalog: catalog, api: api}
}

// validateUserInput requires a password on create only.
func validateUserInput(input domain.UserInput, editMode bool) error {
	if err := validateRequired(input); err != nil {
		return err
	}
	if !editMode && input.Password == "" {
		return apperrors.NewValidationError(MsgRequiredFields, map[string]any{"fields": []string{"password"}})
	}
	return nil
}

// CreateRandom asks the API for a generated user and appends it.
func (u *UserCatalog) CreateRandom(ctx context.Context) (*domain.User, error) {
	callCtx, cancel := u.bind(ctx)
	defer cancel()
	created, err := u.api.CreateRandomUser(callCtx)

	u.mu.Lock()
	if stop := u.interrupted(err); stop != nil {
		u.mu.Unlock()
		return nil, stop
	}
	if err != nil {
		u.mu.Unlock()
		if isUnauthorized(err) {
			return nil, err
		}
		u.deps.Logger.Error("failed to create random user", zap.Error(err))
		u.deps.Alerts.Alert(MsgRandomUserFailed)
		return nil, apperrors.NewUpstreamError(MsgRandomUserFailed, err)
	}
	u.items = append(u.items, *created)
	u.mu.Unlock()

	u.deps.Alerts.Alert(MsgRandomUserCreated)
	u.publish(ctx, events.EventUserCreated, *created)
	return created, nil
}

// SubcategoryModal is the nested subcategory form of a category row.
type SubcategoryModal struct {
	Open       bool
	EditMode   bool
	CategoryID string
	Item       domain.Subcategory
}

// CategoryCatalog manages categories and, per expanded row, their subcategories.
type CategoryCatalog struct {
	*Catalog[domain.Category, domain.CategoryInput]
	api CategoryAPI

	subMu         sync.Mutex
	expanded      map[string]bool
	subcategories map[string][]domain.Subcategory
	subModal      SubcategoryModal
}

// NewCategoryCatalog wires the category table to the gateway.
func NewCategoryCatalog(api CategoryAPI, deps Deps) *CategoryCatalog {
	catalog := NewCatalog(CatalogSpec[domain.Category, domain.CategoryInput]{
		Name: "category",
		Ops: CatalogOps[domain.Category, domain.CategoryInput]{
			List:   api.ListCategories,
			Create: api.CreateCategory,
			Update: api.UpdateCategory,
			Delete: api.DeleteCategory,
		},
		ID:    func(c domain.Category) string { return c.ID },
		Label: func(c domain.Category) string { return c.Name },
		Validate: func(input domain.CategoryInput, _ bool) error {
			return validateRequired(input)
		},
		Messages: CatalogMessages{
			Invalid:       MsgCategoryNameRequired,
			LoadFailed:    MsgLoadCatalogFailed,
			Created:       MsgCategoryCreated,
			CreateFailed:  MsgCategoryCreateFailed,
			Updated:       MsgCategoryUpdated,
			UpdateFailed:  MsgCategoryUpdateFailed,
			ConfirmDelete: MsgConfirmDeleteCategory,
			Deleted:       MsgCategoryDeleted,
			DeleteFailed:  MsgCategoryDeleteFailed,
		},
		Events: CatalogEvents{
			Created: events.EventCategoryCreated,
			Updated: events.EventCategoryUpdated,
			Deleted: events.EventCategoryDeleted,
		},
	}, deps)
	return &CategoryCatalog{
		Catalog:       catalog,
		api:           api,
		expanded:      map[string]bool{},
		subcategories: map[string][]domain.Subcategory{},
	}
}

// Expand opens a category row and loads its subcategories.
func (c *CategoryCatalog) Expand(ctx context.Context, categoryID string) error {
	if _, ok := c.Find(categoryID); !ok {
		return apperrors.NewNotFound("category", map[string]any{"id": categoryID})
	}
	c.subMu.Lock()
	c.expanded[categoryID] = true
	c.subMu.Unlock()
	return c.loadSubcategories(ctx, categoryID)
}

// Collapse closes a category row.
func (c *CategoryCatalog) Collapse(categoryID string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	delete(c.expanded, categoryID)
}

// IsExpanded reports whether the row is open.
func (c *CategoryCatalog) IsExpanded(categoryID string) bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return c.expanded[categoryID]
}

// ExpandedIDs lists the open rows, sorted.
func (c *CategoryCatalog) ExpandedIDs() []string {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	ids := make([]string, 0, len(c.expanded))
	for id := range c.expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SubcategoriesOf returns the loaded subcategories of a category.
func (c *CategoryCatalog) SubcategoriesOf(categoryID string) []domain.Subcategory {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return slices.Clone(c.subcategories[categoryID])
}

func (c *CategoryCatalog) loadSubcategories(ctx context.Context, categoryID string) error {
	callCtx, cancel := c.bind(ctx)
	defer cancel()
	subs, err := c.api.ListSubcategories(callCtx, categoryID)

	c.subMu.Lock()
	defer c.subMu.Unlock()
	if stop := c.interrupted(err); stop != nil {
		return stop
	}
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		c.deps.Logger.Error("failed to load subcategories", zap.String("category_id", categoryID), zap.Error(err))
		c.deps.Alerts.Alert(MsgLoadSubcategoriesFailed)
		return apperrors.NewUpstreamError(MsgLoadSubcategoriesFailed, err)
	}
	c.subcategories[categoryID] = subs
	return nil
}

// SubModal returns the subcategory form state.
func (c *CategoryCatalog) SubModal() SubcategoryModal {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return c.subModal
}

// OpenCreateSubcategory opens an empty subcategory form under categoryID.
func (c *CategoryCatalog) OpenCreateSubcategory(categoryID string) error {
	if _, ok := c.Find(categoryID); !ok {
		return apperrors.NewNotFound("category", map[string]any{"id": categoryID})
	}
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subModal = SubcategoryModal{Open: true, CategoryID: categoryID}
	return nil
}

// OpenEditSubcategory opens the form pre-filled with a loaded subcategory.
func (c *CategoryCatalog) OpenEditSubcategory(categoryID, subcategoryID string) (domain.Subcategory, error) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	subs := c.subcategories[categoryID]
	idx := slices.IndexFunc(subs, func(s domain.Subcategory) bool { return s.ID == subcategoryID })
	if idx < 0 {
		return domain.Subcategory{}, apperrors.NewNotFound("subcategory", map[string]any{"id": subcategoryID})
	}
	c.subModal = SubcategoryModal{Open: true, EditMode: true, CategoryID: categoryID, Item: subs[idx]}
	return subs[idx], nil
}

// CloseSubModal closes the subcategory form.
func (c *CategoryCatalog) CloseSubModal() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subModal = SubcategoryModal{}
}

// SubmitSubcategory creates or renames a subcategory of the form's category.
// A rename re-fetches that category's subcategories.
func (c *CategoryCatalog) SubmitSubcategory(ctx context.Context, name string) (*domain.Subcategory, error) {
	modal := c.SubModal()
	if !modal.Open {
		return nil, apperrors.NewValidationError("subcategory form is closed", nil)
	}
	input := domain.SubcategoryInput{Name: strings.TrimSpace(name), CategoryID: modal.CategoryID}
	if err := validateRequired(input); err != nil {
		c.deps.Alerts.Alert(MsgSubcategoryNameRequired)
		return nil, err
	}

	callCtx, cancel := c.bind(ctx)
	defer cancel()

	if modal.EditMode {
		updated, err := c.api.UpdateSubcategory(callCtx, modal.Item.ID, input.Name)
		if stop := c.interrupted(err); stop != nil {
			return nil, stop
		}
		if err != nil {
			if isUnauthorized(err) {
				return nil, err
			}
			c.deps.Logger.Error("failed to update subcategory", zap.String("id", modal.Item.ID), zap.Error(err))
			c.deps.Alerts.Alert(MsgSubcategoryUpdateFailed)
			return nil, apperrors.NewUpstreamError(MsgSubcategoryUpdateFailed, err)
		}
		c.CloseSubModal()
		c.deps.Alerts.Alert(MsgSubcategoryUpdated)
		c.deps.publish(ctx, events.EventSubcategoryUpdated, updated.ID, events.NamedPayload{Name: updated.Name})
		if err := c.loadSubcategories(ctx, modal.CategoryID); err != nil {
			return updated, err
		}
		return updated, nil
	}

	created, err := c.api.CreateSubcategory(callCtx, input)
	c.subMu.Lock()
	if stop := c.interrupted(err); stop != nil {
		c.subMu.Unlock()
		return nil, stop
	}
	if err != nil {
		c.subMu.Unlock()
		if isUnauthorized(err) {
			return nil, err
		}
		c.deps.Logger.Error("failed to create subcategory", zap.String("category_id", modal.CategoryID), zap.Error(err))
		c.deps.Alerts.Alert(MsgSubcategoryCreateFailed)
		return nil, apperrors.NewUpstreamError(MsgSubcategoryCreateFailed, err)
	}
	c.subcategories[modal.CategoryID] = append(c.subcategories[modal.CategoryID], *created)
	c.subModal = SubcategoryModal{}
	c.subMu.Unlock()

	c.deps.Alerts.Alert(MsgSubcategoryCreated)
	c.deps.publish(ctx, events.EventSubcategoryCreated, created.ID, events.NamedPayload{Name: created.Name})
	return created, nil
}

// DeleteSubcategory removes a subcategory after confirmation.
func (c *CategoryCatalog) DeleteSubcategory(ctx context.Context, categoryID, subcategoryID string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(MsgConfirmDeleteSubcategory) {
		return false, nil
	}

	callCtx, cancel := c.bind(ctx)
	defer cancel()
	err := c.api.DeleteSubcategory(callCtx, subcategoryID)

	c.subMu.Lock()
	if stop := c.interrupted(err); stop != nil {
		c.subMu.Unlock()
		return false, stop
	}
	if err != nil {
		c.subMu.Unlock()
		if isUnauthorized(err) {
			return false, err
		}
		c.deps.Logger.Error("failed to delete subcategory", zap.String("id", subcategoryID), zap.Error(err))
		c.deps.Alerts.Alert(MsgSubcategoryDeleteFailed)
		return false, apperrors.NewUpstreamError(MsgSubcategoryDeleteFailed, err)
	}
	c.subcategories[categoryID] = slices.DeleteFunc(c.subcategories[categoryID], func(s domain.Subcategory) bool {
		return s.ID == subcategoryID
	})
	c.subMu.Unlock()

	c.deps.Alerts.Alert(MsgSubcategoryDeleted)
	c.deps.publish(ctx, events.EventSubcategoryDeleted, subcategoryID, nil)
	return true, nil
}

// Delete removes a category and forgets its expanded row.
func (c *CategoryCatalog) Delete(ctx context.Context, categoryID string, confirm Confirmer) (bool, error) {
	deleted, err := c.Catalog.Delete(ctx, categoryID, confirm)
	if deleted {
		c.subMu.Lock()
		delete(c.expanded, categoryID)
		delete(c.subcategories, categoryID)
		c.subMu.Unlock()
	}
	return deleted, err
}
