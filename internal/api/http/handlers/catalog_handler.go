package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/controller"
	"github.com/spec-kit/ticket-console/internal/workspace"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// catalogPage serves one reference-data table: list, modal form and
// confirmed delete.
type catalogPage[T any, In any] struct {
	Base
	path    string
	view    string
	title   string
	catalog func(ws *workspace.Workspace) *controller.Catalog[T, In]
	bind    func(c *fiber.Ctx) (In, error)
	extra   func(ws *workspace.Workspace, data fiber.Map)
	// remove overrides the catalog's Delete when rows own nested state.
	remove func(ws *workspace.Workspace) func(ctx context.Context, id string, confirm controller.Confirmer) (bool, error)
}

func (p *catalogPage[T, In]) register(router fiber.Router) {
	router.Get(p.path, p.Index)
	router.Post(p.path, p.Submit)
	router.Get(p.path+"/new", p.New)
	router.Post(p.path+"/close", p.Close)
	router.Get(p.path+"/:id/edit", p.Edit)
	router.Post(p.path+"/:id/delete", p.Delete)
}

// Index loads the table and shows the modal when it is open.
func (p *catalogPage[T, In]) Index(c *fiber.Ctx) error {
	ws, err := p.workspace(c)
	if err != nil {
		return err
	}
	catalog := p.catalog(ws)
	if err := catalog.Load(c.UserContext()); err != nil && apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		return err
	}
	data := fiber.Map{
		"Title": p.title,
		"Path":  p.path,
		"Items": catalog.Items(),
		"Modal": catalog.Modal(),
	}
	if p.extra != nil {
		p.extra(ws, data)
	}
	return p.render(c, ws, p.view, data)
}

// New opens the empty form.
func (p *catalogPage[T, In]) New(c *fiber.Ctx) error {
	ws, err := p.workspace(c)
	if err != nil {
		return err
	}
	p.catalog(ws).OpenCreate()
	return c.Redirect(p.path, fiber.StatusSeeOther)
}

// Edit opens the form pre-filled with a row.
func (p *catalogPage[T, In]) Edit(c *fiber.Ctx) error {
	ws, err := p.workspace(c)
	if err != nil {
		return err
	}
	_, err = p.catalog(ws).OpenEdit(c.Params("id"))
	return p.afterAction(c, ws, err, p.path)
}

// Close closes the form.
func (p *catalogPage[T, In]) Close(c *fiber.Ctx) error {
	ws, err := p.workspace(c)
	if err != nil {
		return err
	}
	p.catalog(ws).CloseModal()
	return c.Redirect(p.path, fiber.StatusSeeOther)
}

// Submit creates or updates, depending on how the form was opened.
func (p *catalogPage[T, In]) Submit(c *fiber.Ctx) error {
	ws, err := p.workspace(c)
	if err != nil {
		return err
	}
	input, err := p.bind(c)
	if err != nil {
		ws.Flash.Alert(controller.MsgRequiredFields)
		return c.Redirect(p.path, fiber.StatusSeeOther)
	}
	_, err = p.catalog(ws).Submit(c.UserContext(), input)
	return p.afterAction(c, ws, err, p.path)
}

// Delete removes a row after confirmation.
func (p *catalogPage[T, In]) Delete(c *fiber.Ctx) error {
	ws, err := p.workspace(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	remove := p.catalog(ws).Delete
	if p.remove != nil {
		remove = p.remove(ws)
	}
	return p.confirmed(c, ws, p.path, func(confirm controller.Confirmer) (bool, error) {
		return remove(c.UserContext(), id, confirm)
	})
}
