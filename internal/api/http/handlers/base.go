package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/controller"
	"github.com/spec-kit/ticket-console/internal/workspace"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// LayoutView wraps every page.
const LayoutView = "layout"

// Base gives handlers access to the caller's workspace.
type Base struct {
	registry *workspace.Registry
	logger   *zap.Logger
}

// NewBase constructs the shared handler base.
func NewBase(registry *workspace.Registry, logger *zap.Logger) Base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Base{registry: registry, logger: logger}
}

func (b Base) workspace(c *fiber.Ctx) (*workspace.Workspace, error) {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return b.registry.Get(sess), nil
}

// render draws view inside the layout with the queued flash messages.
func (b Base) render(c *fiber.Ctx, ws *workspace.Workspace, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Flash"] = ws.Flash.Drain()
	data["Session"] = ws.Session
	data["IsAdmin"] = ws.Session.IsAdmin()
	return c.Render(view, data, LayoutView)
}

// afterAction redirects back once an action finished. Failures were already
// flashed by the controller; session expiry and missing scopes propagate.
func (b Base) afterAction(c *fiber.Ctx, ws *workspace.Workspace, err error, back string) error {
	if err != nil {
		switch {
		case apperrors.HasCode(err, apperrors.CodeUnauthorized), apperrors.HasCode(err, apperrors.CodeForbidden):
			return err
		case errors.Is(err, controller.ErrTornDown):
			b.logger.Debug("action outlived its workspace", zap.String("path", c.Path()))
		case apperrors.HasCode(err, apperrors.CodeNotFound):
			ws.Flash.Alert(apperrors.ToDomainError(err).Message)
		}
	}
	return c.Redirect(back, fiber.StatusSeeOther)
}

// webConfirmer answers the controller's prompt from the posted form and
// remembers the prompt so it can be shown when the answer is missing.
type webConfirmer struct {
	answer bool
	prompt string
}

func (w *webConfirmer) Confirm(prompt string) bool {
	w.prompt = prompt
	return w.answer
}

// confirmed runs a destructive action. Without confirm=yes it renders the
// confirmation page, which posts back to the same URL.
func (b Base) confirmed(c *fiber.Ctx, ws *workspace.Workspace, back string, act func(controller.Confirmer) (bool, error)) error {
	confirm := &webConfirmer{answer: c.FormValue("confirm") == "yes"}
	_, err := act(confirm)
	if err != nil {
		return b.afterAction(c, ws, err, back)
	}
	if !confirm.answer && confirm.prompt != "" {
		return b.render(c, ws, "confirm", fiber.Map{
			"Title":  "Confirmação",
			"Prompt": confirm.prompt,
			"Action": c.OriginalURL(),
			"Back":   back,
		})
	}
	return c.Redirect(back, fiber.StatusSeeOther)
}
