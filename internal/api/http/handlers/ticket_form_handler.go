package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/controller"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/workspace"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// ticketForm is what the create and edit screens have in common.
type ticketForm interface {
	LoadSeverities(ctx context.Context) error
	Severities() []domain.Severity
	Fields() controller.TicketFields
	SetText(title, description string)
	SetSeverity(id string)
	RemoveAttachment(categoryID string)
	Selector() *controller.CategorySelector
	ConfirmSelection() error
}

// formScreen binds one request to an open form.
type formScreen struct {
	ws   *workspace.Workspace
	form ticketForm
	base string
	// edit is set on the edit screen.
	edit *controller.TicketEdit
}

// TicketFormsHandler serves the create and edit forms with their nested
// category selector.
type TicketFormsHandler struct {
	Base
}

// NewTicketFormsHandler constructs handler.
func NewTicketFormsHandler(base Base) *TicketFormsHandler {
	return &TicketFormsHandler{Base: base}
}

// Register wires the create form under /tickets/new and the edit form under
// /tickets/:id/edit.
func (h *TicketFormsHandler) Register(router fiber.Router) {
	h.registerScreen(router, "/tickets/new", h.createScreen, h.submitCreate, h.cancelCreate)
	h.registerScreen(router, "/tickets/:id/edit", h.editScreen, h.submitEdit, h.cancelEdit)
}

type (
	screenResolver func(c *fiber.Ctx) (*formScreen, error)
	screenAction   func(c *fiber.Ctx, screen *formScreen) error
)

func (h *TicketFormsHandler) registerScreen(router fiber.Router, path string, resolve screenResolver, submit, cancel screenAction) {
	with := func(action screenAction) fiber.Handler {
		return func(c *fiber.Ctx) error {
			screen, err := resolve(c)
			if err != nil {
				return err
			}
			return action(c, screen)
		}
	}
	router.Get(path, with(h.show))
	router.Post(path, with(func(c *fiber.Ctx, screen *formScreen) error {
		return h.save(c, screen, submit)
	}))
	router.Post(path+"/cancel", with(cancel))
	router.Post(path+"/attachments/remove", with(h.removeAttachment))
	router.Post(path+"/selector/category", with(h.selectCategory))
	router.Post(path+"/selector/toggle", with(h.toggleSubcategory))
	router.Post(path+"/selector/confirm", with(h.confirmSelection))
	router.Post(path+"/selector/cancel", with(h.cancelSelection))
}

func (h *TicketFormsHandler) createScreen(c *fiber.Ctx) (*formScreen, error) {
	ws, err := h.workspace(c)
	if err != nil {
		return nil, err
	}
	form, ok := ws.Create()
	if !ok {
		form = ws.BeginCreate()
	}
	return &formScreen{ws: ws, form: form, base: "/tickets/new"}, nil
}

func (h *TicketFormsHandler) editScreen(c *fiber.Ctx) (*formScreen, error) {
	ws, err := h.workspace(c)
	if err != nil {
		return nil, err
	}
	id := c.Params("id")
	form, ok := ws.Edit(id)
	if !ok {
		ticket, err := ws.Tickets.OpenEdit(id)
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			if loadErr := ws.Tickets.Load(c.UserContext()); loadErr != nil {
				return nil, loadErr
			}
			ticket, err = ws.Tickets.OpenEdit(id)
		}
		if err != nil {
			return nil, fiber.NewError(http.StatusNotFound, apperrors.ToDomainError(err).Message)
		}
		form = ws.BeginEdit(ticket)
	}
	return &formScreen{ws: ws, form: form, base: "/tickets/" + id + "/edit", edit: form}, nil
}

func (h *TicketFormsHandler) show(c *fiber.Ctx, screen *formScreen) error {
	if len(screen.form.Severities()) == 0 {
		if err := screen.form.LoadSeverities(c.UserContext()); apperrors.HasCode(err, apperrors.CodeUnauthorized) {
			return err
		}
	}
	selector := screen.form.Selector()
	data := fiber.Map{
		"Title":              "Novo ticket",
		"Base":               screen.base,
		"Fields":             screen.form.Fields(),
		"Severities":         screen.form.Severities(),
		"SelectorOpen":       selector.IsOpen(),
		"Categories":         selector.Categories(),
		"SelectedCategoryID": selector.SelectedCategoryID(),
		"Subcategories":      selector.Subcategories(),
		"Checked":            checkedSet(selector),
		"CanConfirm":         selector.CanConfirm(),
		"IsEdit":             screen.edit != nil,
	}
	if screen.edit != nil {
		data["Title"] = "Editar ticket"
		data["Status"] = screen.edit.Status()
		data["Statuses"] = domain.TicketStatuses
	}
	return h.render(c, screen.ws, "ticket_form", data)
}

func checkedSet(selector *controller.CategorySelector) map[string]bool {
	checked := map[string]bool{}
	for _, sub := range selector.Subcategories() {
		if selector.IsChecked(sub.ID) {
			checked[sub.ID] = true
		}
	}
	return checked
}

// save stores the text inputs, then either submits or opens the selector.
func (h *TicketFormsHandler) save(c *fiber.Ctx, screen *formScreen, submit screenAction) error {
	var req dto.TicketForm
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	screen.form.SetText(req.Title, req.Description)
	screen.form.SetSeverity(req.SeverityID)
	if screen.edit != nil && req.Status != "" {
		if err := screen.edit.SetStatus(domain.TicketStatus(req.Status)); err != nil {
			screen.ws.Flash.Alert(controller.MsgRequiredFields)
			return c.Redirect(screen.base, fiber.StatusSeeOther)
		}
	}

	switch req.Action {
	case "add_category":
		err := screen.form.Selector().Open(c.UserContext())
		return h.afterAction(c, screen.ws, err, screen.base)
	case "save":
		return c.Redirect(screen.base, fiber.StatusSeeOther)
	default:
		return submit(c, screen)
	}
}

func (h *TicketFormsHandler) submitCreate(c *fiber.Ctx, screen *formScreen) error {
	form, ok := screen.form.(*controller.TicketCreate)
	if !ok {
		return fiber.NewError(http.StatusInternalServerError, "unexpected form")
	}
	if _, err := form.Submit(c.UserContext()); err != nil {
		return h.afterAction(c, screen.ws, err, screen.base)
	}
	screen.ws.EndCreate()
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *TicketFormsHandler) submitEdit(c *fiber.Ctx, screen *formScreen) error {
	if _, err := screen.edit.Submit(c.UserContext()); err != nil {
		return h.afterAction(c, screen.ws, err, screen.base)
	}
	screen.ws.EndEdit()
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *TicketFormsHandler) cancelCreate(c *fiber.Ctx, screen *formScreen) error {
	screen.ws.EndCreate()
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *TicketFormsHandler) cancelEdit(c *fiber.Ctx, screen *formScreen) error {
	screen.ws.EndEdit()
	screen.ws.Tickets.CloseEdit()
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *TicketFormsHandler) removeAttachment(c *fiber.Ctx, screen *formScreen) error {
	screen.form.RemoveAttachment(c.FormValue("category_id"))
	return c.Redirect(screen.base, fiber.StatusSeeOther)
}

func (h *TicketFormsHandler) selectCategory(c *fiber.Ctx, screen *formScreen) error {
	err := screen.form.Selector().SelectCategory(c.UserContext(), c.FormValue("category_id"))
	return h.afterAction(c, screen.ws, err, screen.base)
}

func (h *TicketFormsHandler) toggleSubcategory(c *fiber.Ctx, screen *formScreen) error {
	err := screen.form.Selector().Toggle(c.FormValue("subcategory_id"))
	return h.afterAction(c, screen.ws, err, screen.base)
}

func (h *TicketFormsHandler) confirmSelection(c *fiber.Ctx, screen *formScreen) error {
	if err := screen.form.ConfirmSelection(); err != nil {
		screen.ws.Flash.Alert(controller.MsgRequiredFields)
	}
	return c.Redirect(screen.base, fiber.StatusSeeOther)
}

func (h *TicketFormsHandler) cancelSelection(c *fiber.Ctx, screen *formScreen) error {
	screen.form.Selector().Close()
	return c.Redirect(screen.base, fiber.StatusSeeOther)
}
