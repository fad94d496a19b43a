package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/access"
)

// RouteGuard aplica las reglas de /admin y /portal antes de cualquier handler.
// Debe montarse después de SessionMiddleware.
func RouteGuard(g *access.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := g.Decide(c.UserContext(), c.OriginalURL(), GetSession(c))
		if !d.Allowed() {
			return c.Redirect(d.Redirect, fiber.StatusFound)
		}
		return c.Next()
	}
}
