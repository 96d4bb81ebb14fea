package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/apiclient"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
}

// AuthHandler serves the login view and logout.
type AuthHandler struct {
	authenticator Authenticator
	sessions      *auth.Sessions
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authenticator Authenticator, sessions *auth.Sessions, dispatcher events.Dispatcher, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{authenticator: authenticator, sessions: sessions, dispatcher: dispatcher, logger: logger}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Login", "Username": ""}
	if c.Query("expired") != "" {
		data["Flash"] = []string{apiclient.SessionExpiredMessage}
	}
	return c.Render("login", data, LayoutView)
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginForm
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	username := strings.TrimSpace(req.Username)

	sess, err := h.authenticator.Login(c.UserContext(), username, req.Password)
	if err != nil {
		return c.Status(http.StatusUnauthorized).Render("login", fiber.Map{
			"Title":    "Login",
			"Username": username,
			"Flash":    []string{apiclient.InvalidCredentialsMessage},
		}, LayoutView)
	}
	if err := h.sessions.Begin(c, sess); err != nil {
		return err
	}
	h.publish(c.UserContext(), events.EventSessionStarted, sess)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout handles POST /logout. It is the explicit end of a session; the
// same teardown runs when the ticket API answers 401.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if ok {
		if err := h.sessions.End(c.UserContext(), sess.ID); err != nil {
			h.logger.Warn("logout left a session record behind", zap.Error(err))
		}
		h.publish(c.UserContext(), events.EventSessionEnded, sess)
	}
	h.sessions.ClearCookie(c)
	return c.Redirect(auth.LoginPath, fiber.StatusSeeOther)
}

func (h *AuthHandler) publish(ctx context.Context, eventType events.EventType, sess *domain.Session) {
	if h.dispatcher == nil {
		return
	}
	_ = h.dispatcher.Publish(ctx, events.NewEvent(eventType, sess.ID, events.ActorFromSession(sess), nil))
}
