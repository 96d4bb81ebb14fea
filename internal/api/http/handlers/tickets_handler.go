package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/controller"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// TicketsHandler serves the home screen: ticket list, detail and admin actions.
type TicketsHandler struct {
	Base
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(base Base) *TicketsHandler {
	return &TicketsHandler{Base: base}
}

// Index handles GET /.
func (h *TicketsHandler) Index(c *fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if err := ws.Tickets.Load(c.UserContext()); err != nil && apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		return err
	}
	if id := c.Query("selected"); id != "" {
		if _, err := ws.Tickets.Select(id); err != nil {
			ws.Flash.Alert(apperrors.ToDomainError(err).Message)
		}
	}
	selected, hasSelected := ws.Tickets.Selected()
	return h.render(c, ws, "tickets", fiber.Map{
		"Title":       "Tickets",
		"Tickets":     ws.Tickets.Tickets(),
		"Selected":    selected,
		"HasSelected": hasSelected,
		"Editing":     ws.Tickets.Editing(),
		"CanDelete":   ws.Tickets.CanDelete(),
		"CanComment":  ws.Tickets.CanGenerateComment(),
	})
}

// Select handles POST /tickets/select/:id.
func (h *TicketsHandler) Select(c *fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	_, err = ws.Tickets.Select(c.Params("id"))
	return h.afterAction(c, ws, err, "/")
}

// Dismiss handles POST /tickets/dismiss.
func (h *TicketsHandler) Dismiss(c *fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	reason := controller.DismissClose
	switch c.FormValue("reason") {
	case "escape":
		reason = controller.DismissEscape
	case "outside":
		reason = controller.DismissOutsideClick
	}
	if ws.Tickets.Dismiss(reason) {
		ws.EndEdit()
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Delete handles POST /tickets/:id/delete.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	return h.confirmed(c, ws, "/", func(confirm controller.Confirmer) (bool, error) {
		deleted, err := ws.Tickets.Delete(c.UserContext(), id, confirm)
		if deleted {
			if form, ok := ws.Edit(id); ok && form != nil {
				ws.EndEdit()
			}
		}
		return deleted, err
	})
}

// Comment handles POST /tickets/:id/comment.
func (h *TicketsHandler) Comment(c *fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if _, err := ws.Tickets.Select(c.Params("id")); err != nil {
		return h.afterAction(c, ws, err, "/")
	}
	_, err = ws.Tickets.GenerateComment(c.UserContext())
	return h.afterAction(c, ws, err, "/")
}
