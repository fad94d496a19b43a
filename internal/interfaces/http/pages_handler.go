package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/access"
)

// LoginPage GET /login: destino de las redirecciones del guard. La UI vive fuera de la API.
func LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":         "login",
		"login_api":    "/api/auth/login",
		"callback_url": c.Query(access.CallbackParam),
	})
}

// AccessDeniedPage GET /portal-access-denied
func AccessDeniedPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":    "portal-access-denied",
		"message": "tu cuenta aún no tiene acceso al portal; contacta al estudio",
	})
}

// Health GET /health
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
