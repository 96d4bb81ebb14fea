package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/controller"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/workspace"
)

// CategoriesHandler serves /categories and the nested subcategory routes.
type CategoriesHandler struct {
	page *catalogPage[domain.Category, domain.CategoryInput]
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(base Base) *CategoriesHandler {
	return &CategoriesHandler{page: &catalogPage[domain.Category, domain.CategoryInput]{
		Base:  base,
		path:  "/categories",
		view:  "categories",
		title: "Categorias",
		catalog: func(ws *workspace.Workspace) *controller.Catalog[domain.Category, domain.CategoryInput] {
			return ws.Categories.Catalog
		},
		bind: func(c *fiber.Ctx) (domain.CategoryInput, error) {
			var req dto.CategoryForm
			if err := c.BodyParser(&req); err != nil {
				return domain.CategoryInput{}, err
			}
			return req.ToInput(), nil
		},
		remove: func(ws *workspace.Workspace) func(context.Context, string, controller.Confirmer) (bool, error) {
			return ws.Categories.Delete
		},
		extra: func(ws *workspace.Workspace, data fiber.Map) {
			expanded := map[string]bool{}
			subcategories := map[string][]domain.Subcategory{}
			for _, id := range ws.Categories.ExpandedIDs() {
				expanded[id] = true
				subcategories[id] = ws.Categories.SubcategoriesOf(id)
			}
			data["Expanded"] = expanded
			data["Subcategories"] = subcategories
			data["SubModal"] = ws.Categories.SubModal()
		},
	}}
}

// Register wires the routes.
func (h *CategoriesHandler) Register(router fiber.Router) {
	h.page.register(router)
	router.Post("/categories/:id/expand", h.Expand)
	router.Post("/categories/:id/collapse", h.Collapse)
	router.Get("/categories/:id/subcategories/new", h.NewSubcategory)
	router.Get("/categories/:id/subcategories/:subID/edit", h.EditSubcategory)
	router.Post("/categories/:id/subcategories", h.SubmitSubcategory)
	router.Post("/categories/:id/subcategories/close", h.CloseSubcategory)
	router.Post("/categories/:id/subcategories/:subID/delete", h.DeleteSubcategory)
}

// Expand handles POST /categories/:id/expand.
func (h *CategoriesHandler) Expand(c *fiber.Ctx) error {
	ws, err := h.page.workspace(c)
	if err != nil {
		return err
	}
	err = ws.Categories.Expand(c.UserContext(), c.Params("id"))
	return h.page.afterAction(c, ws, err, "/categories")
}

// Collapse handles POST /categories/:id/collapse.
func (h *CategoriesHandler) Collapse(c *fiber.Ctx) error {
	ws, err := h.page.workspace(c)
	if err != nil {
		return err
	}
	ws.Categories.Collapse(c.Params("id"))
	return c.Redirect("/categories", fiber.StatusSeeOther)
}

// NewSubcategory opens the empty subcategory form.
func (h *CategoriesHandler) NewSubcategory(c *fiber.Ctx) error {
	ws, err := h.page.workspace(c)
	if err != nil {
		return err
	}
	err = ws.Categories.OpenCreateSubcategory(c.Params("id"))
	return h.page.afterAction(c, ws, err, "/categories")
}

// EditSubcategory opens the subcategory form pre-filled.
func (h *CategoriesHandler) EditSubcategory(c *fiber.Ctx) error {
	ws, err := h.page.workspace(c)
	if err != nil {
		return err
	}
	_, err = ws.Categories.OpenEditSubcategory(c.Params("id"), c.Params("subID"))
	return h.page.afterAction(c, ws, err, "/categories")
}

// SubmitSubcategory creates or renames the subcategory in the open form.
func (h *CategoriesHandler) SubmitSubcategory(c *fiber.Ctx) error {
	ws, err := h.page.workspace(c)
	if err != nil {
		return err
	}
	var req dto.CategoryForm
	if err := c.BodyParser(&req); err != nil {
		ws.Flash.Alert(controller.MsgSubcategoryNameRequired)
		return c.Redirect("/categories", fiber.StatusSeeOther)
	}
	_, err = ws.Categories.SubmitSubcategory(c.UserContext(), req.Name)
	return h.page.afterAction(c, ws, err, "/categories")
}

// CloseSubcategory closes the subcategory form.
func (h *CategoriesHandler) CloseSubcategory(c *fiber.Ctx) error {
	ws, err := h.page.workspace(c)
	if err != nil {
		return err
	}
	ws.Categories.CloseSubModal()
	return c.Redirect("/categories", fiber.StatusSeeOther)
}

// DeleteSubcategory removes a subcategory after confirmation.
func (h *CategoriesHandler) DeleteSubcategory(c *fiber.Ctx) error {
	ws, err := h.page.workspace(c)
	if err != nil {
		return err
	}
	categoryID, subID := c.Params("id"), c.Params("subID")
	return h.page.confirmed(c, ws, "/categories", func(confirm controller.Confirmer) (bool, error) {
		return ws.Categories.DeleteSubcategory(c.UserContext(), categoryID, subID, confirm)
	})
}
