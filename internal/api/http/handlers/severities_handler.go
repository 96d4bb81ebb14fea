package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/controller"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/workspace"
)

// SeveritiesHandler serves /severities.
type SeveritiesHandler struct {
	page *catalogPage[domain.Severity, domain.SeverityInput]
}

// NewSeveritiesHandler constructs handler.
func NewSeveritiesHandler(base Base) *SeveritiesHandler {
	return &SeveritiesHandler{page: &catalogPage[domain.Severity, domain.SeverityInput]{
		Base:  base,
		path:  "/severities",
		view:  "severities",
		title: "Severidades",
		catalog: func(ws *workspace.Workspace) *controller.Catalog[domain.Severity, domain.SeverityInput] {
			return ws.Severities
		},
		bind: func(c *fiber.Ctx) (domain.SeverityInput, error) {
			var req dto.SeverityForm
			if err := c.BodyParser(&req); err != nil {
				return domain.SeverityInput{}, err
			}
			return req.ToInput(), nil
		},
	}}
}

// Register wires the routes.
func (h *SeveritiesHandler) Register(router fiber.Router) {
	h.page.register(router)
}
