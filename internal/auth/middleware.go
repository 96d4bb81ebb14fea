package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/session"
)

const principalKey = "auth_principal"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// SessionGuard redirects every request without a live session to the login view.
type SessionGuard struct {
	sessions *Sessions
}

// NewSessionGuard constructs middleware.
func NewSessionGuard(sessions *Sessions) *SessionGuard {
	return &SessionGuard{sessions: sessions}
}

// Handle enforces a session for protected routes.
func (g *SessionGuard) Handle(c *fiber.Ctx) error {
	sess, err := g.sessions.Resolve(c)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			return err
		}
		g.sessions.ClearCookie(c)
		return c.Redirect(LoginPath, fiber.StatusSeeOther)
	}
	c.Locals(principalKey, sess)
	return c.Next()
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*domain.Session)
	return sess, ok
}
