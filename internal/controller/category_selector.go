package controller

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// CategorySelector is the nested widget that picks one category and some of
// its subcategories for a ticket form.
type CategorySelector struct {
	lifecycle
	deps Deps
	api  CategoryAPI

	mu            sync.Mutex
	open          bool
	categories    []domain.Category
	categoryID    string
	subcategories []domain.Subcategory
	checked       map[string]bool
}

// NewCategorySelector builds a closed selector.
func NewCategorySelector(api CategoryAPI, deps Deps) *CategorySelector {
	return &CategorySelector{
		lifecycle: newLifecycle(),
		deps:      deps.withDefaults(),
		api:       api,
		checked:   map[string]bool{},
	}
}

// Open resets the widget and fetches the category list.
func (s *CategorySelector) Open(ctx context.Context) error {
	callCtx, cancel := s.bind(ctx)
	defer cancel()
	categories, err := s.api.ListCategories(callCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if stop := s.interrupted(err); stop != nil {
		return stop
	}
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		s.deps.Logger.Error("failed to load categories", zap.Error(err))
		s.deps.Alerts.Alert(MsgLoadCategoriesFailed)
		return apperrors.NewUpstreamError(MsgLoadCategoriesFailed, err)
	}
	s.open = true
	s.categories = categories
	s.categoryID = ""
	s.subcategories = nil
	s.checked = map[string]bool{}
	return nil
}

// IsOpen reports whether the widget is shown.
func (s *CategorySelector) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Close hides the widget and forgets the picks.
func (s *CategorySelector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.categoryID = ""
	s.subcategories = nil
	s.checked = map[string]bool{}
}

// Categories returns the fetched category list.
func (s *CategorySelector) Categories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories)
}

// SelectedCategoryID is the picked category, empty when none.
func (s *CategorySelector) SelectedCategoryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryID
}

// Subcategories returns the picked category's subcategories.
func (s *CategorySelector) Subcategories() []domain.Subcategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.subcategories)
}

// IsChecked reports whether subcategory id is ticked.
func (s *CategorySelector) IsChecked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked[id]
}

// SelectCategory picks a category, clears the ticks and fetches its
// subcategories. A response for a category no longer picked is dropped.
func (s *CategorySelector) SelectCategory(ctx context.Context, categoryID string) error {
	s.mu.Lock()
	if !slices.ContainsFunc(s.categories, func(c domain.Category) bool { return c.ID == categoryID }) {
		s.mu.Unlock()
		return apperrors.NewNotFound("category", map[string]any{"id": categoryID})
	}
	s.categoryID = categoryID
	s.subcategories = nil
	s.checked = map[string]bool{}
	s.mu.Unlock()

	callCtx, cancel := s.bind(ctx)
	defer cancel()
	subcategories, err := s.api.ListSubcategories(callCtx, categoryID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if stop := s.interrupted(err); stop != nil {
		return stop
	}
	if s.categoryID != categoryID {
		return nil
	}
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		s.deps.Logger.Error("failed to load subcategories", zap.String("category_id", categoryID), zap.Error(err))
		s.deps.Alerts.Alert(MsgLoadSubcategoriesFailed)
		return apperrors.NewUpstreamError(MsgLoadSubcategoriesFailed, err)
	}
	s.subcategories = subcategories
	return nil
}

// Toggle flips the tick of one subcategory of the picked category.
func (s *CategorySelector) Toggle(subcategoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.subcategories, func(sub domain.Subcategory) bool { return sub.ID == subcategoryID }) {
		return apperrors.NewNotFound("subcategory", map[string]any{"id": subcategoryID})
	}
	if s.checked[subcategoryID] {
		delete(s.checked, subcategoryID)
	} else {
		s.checked[subcategoryID] = true
	}
	return nil
}

// CanConfirm is true once a category is picked and a subcategory ticked.
func (s *CategorySelector) CanConfirm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canConfirm()
}

func (s *CategorySelector) canConfirm() bool {
	return s.categoryID != "" && len(s.checked) > 0
}

// Confirm hands the picks back as an attachment and closes the widget.
func (s *CategorySelector) Confirm() (Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canConfirm() {
		return Attachment{}, apperrors.NewValidationError(MsgRequiredFields, nil)
	}
	idx := slices.IndexFunc(s.categories, func(c domain.Category) bool { return c.ID == s.categoryID })
	if idx < 0 {
		return Attachment{}, apperrors.NewNotFound("category", map[string]any{"id": s.categoryID})
	}
	picked := make([]domain.Subcategory, 0, len(s.checked))
	for _, sub := range s.subcategories {
		if s.checked[sub.ID] {
			picked = append(picked, sub)
		}
	}
	attachment := Attachment{Category: s.categories[idx], Subcategories: picked}

	s.open = false
	s.categoryID = ""
	s.subcategories = nil
	s.checked = map[string]bool{}
	return attachment, nil
}
