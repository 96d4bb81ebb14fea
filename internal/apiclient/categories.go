package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/ticket-console/internal/domain"
)

var (
	opListCategories = operation{name: "list_categories", message: "Erro ao buscar categorias"}
	opCreateCategory = operation{name: "create_category", message: "Erro ao criar categoria"}
	opUpdateCategory = operation{name: "update_category", message: "Erro ao atualizar categoria"}
	opDeleteCategory = operation{name: "delete_category", message: "Erro ao deletar categoria"}

	opListSubcategories = operation{name: "list_subcategories", message: "Erro ao buscar subcategorias"}
	opCreateSubcategory = operation{name: "create_subcategory", message: "Erro ao criar subcategoria"}
	opUpdateSubcategory = operation{name: "update_subcategory", message: "Erro ao atualizar subcategoria"}
	opDeleteSubcategory = operation{name: "delete_subcategory", message: "Erro ao deletar subcategoria"}
)

// ListCategories GET /api/v1/categories.
func (g *Gateway) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := g.do(ctx, opListCategories, http.MethodGet, "/api/v1/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory POST /api/v1/categories.
func (g *Gateway) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := g.do(ctx, opCreateCategory, http.MethodPost, "/api/v1/categories", nil, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory PATCH /api/v1/categories/{id}.
func (g *Gateway) UpdateCategory(ctx context.Context, id string, input domain.CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := g.do(ctx, opUpdateCategory, http.MethodPatch, "/api/v1/categories/"+url.PathEscape(id), nil, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory DELETE /api/v1/categories/?category_id={id}.
func (g *Gateway) DeleteCategory(ctx context.Context, id string) error {
	return g.do(ctx, opDeleteCategory, http.MethodDelete, "/api/v1/categories/", url.Values{"category_id": {id}}, nil, nil)
}

// ListSubcategories GET /api/v1/subcategories/{category_id}/show.
func (g *Gateway) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	var subcategories []domain.Subcategory
	path := "/api/v1/subcategories/" + url.PathEscape(categoryID) + "/show"
	if err := g.do(ctx, opListSubcategories, http.MethodGet, path, nil, nil, &subcategories); err != nil {
		return nil, err
	}
	return subcategories, nil
}

// CreateSubcategory POST /api/v1/subcategories.
func (g *Gateway) CreateSubcategory(ctx context.Context, input domain.SubcategoryInput) (*domain.Subcategory, error) {
	var subcategory domain.Subcategory
	if err := g.do(ctx, opCreateSubcategory, http.MethodPost, "/api/v1/subcategories", nil, input, &subcategory); err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// UpdateSubcategory PATCH /api/v1/subcategories/{id}. Only the name can change.
func (g *Gateway) UpdateSubcategory(ctx context.Context, id, name string) (*domain.Subcategory, error) {
	var subcategory domain.Subcategory
	body := map[string]string{"name": name}
	if err := g.do(ctx, opUpdateSubcategory, http.MethodPatch, "/api/v1/subcategories/"+url.PathEscape(id), nil, body, &subcategory); err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// DeleteSubcategory DELETE /api/v1/subcategories/{id}.
func (g *Gateway) DeleteSubcategory(ctx context.Context, id string) error {
	return g.do(ctx, opDeleteSubcategory, http.MethodDelete, "/api/v1/subcategories/"+url.PathEscape(id), nil, nil, nil)
}
