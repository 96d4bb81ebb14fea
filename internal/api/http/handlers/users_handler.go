package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/controller"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/workspace"
)

// UsersHandler serves /users.
type UsersHandler struct {
	page *catalogPage[domain.User, domain.UserInput]
}

// NewUsersHandler constructs handler.
func NewUsersHandler(base Base) *UsersHandler {
	return &UsersHandler{page: &catalogPage[domain.User, domain.UserInput]{
		Base:  base,
		path:  "/users",
		view:  "users",
		title: "Usuários",
		catalog: func(ws *workspace.Workspace) *controller.Catalog[domain.User, domain.UserInput] {
			return ws.Users.Catalog
		},
		bind: func(c *fiber.Ctx) (domain.UserInput, error) {
			var req dto.UserForm
			if err := c.BodyParser(&req); err != nil {
				return domain.UserInput{}, err
			}
			return req.ToInput(), nil
		},
		extra: func(_ *workspace.Workspace, data fiber.Map) {
			data["Roles"] = domain.UserRoles
		},
	}}
}

// Register wires the routes.
func (h *UsersHandler) Register(router fiber.Router) {
	h.page.register(router)
	router.Post("/users/random", h.Random)
}

// Random handles POST /users/random.
func (h *UsersHandler) Random(c *fiber.Ctx) error {
	ws, err := h.page.workspace(c)
	if err != nil {
		return err
	}
	_, err = ws.Users.CreateRandom(c.UserContext())
	return h.page.afterAction(c, ws, err, "/users")
}
