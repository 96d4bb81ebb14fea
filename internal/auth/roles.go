package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RequireScope ensures the session carries one of the allowed scopes.
func RequireScope(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		for _, scope := range allowed {
			if sess.HasScope(scope) {
				return c.Next()
			}
		}
		return fiber.NewError(http.StatusForbidden, "insufficient scope")
	}
}
