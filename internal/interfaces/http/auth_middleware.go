package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/pkg/logger"
)

// LocalSession key de Fiber Locals para la sesión resuelta.
const LocalSession = "session"

// SessionMiddleware resuelve la sesión desde la cookie o el header Bearer y la
// deja en Locals. No rechaza nada: un token ausente, inválido o expirado se
// trata como petición sin sesión y las reglas de acceso deciden después.
func SessionMiddleware(resolver auth.SessionResolver, cookieName string, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("session")
	return func(c *fiber.Ctx) error {
		token := tokenFrom(c, cookieName)
		if token == "" {
			return c.Next()
		}
		session, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token descartado")
			return c.Next()
		}
		if session != nil {
			c.Locals(LocalSession, session)
		}
		return c.Next()
	}
}

// tokenFrom prioriza la cookie de sesión; el header Bearer queda para clientes de API.
func tokenFrom(c *fiber.Ctx, cookieName string) string {
	if v := strings.TrimSpace(c.Cookies(cookieName)); v != "" {
		return v
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetSession devuelve la sesión del contexto o nil.
func GetSession(c *fiber.Ctx) *auth.Session {
	s, _ := c.Locals(LocalSession).(*auth.Session)
	return s
}

// RequireSession responde 401 a las rutas JSON sin sesión.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetSession(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		return c.Next()
	}
}

// RequireRole exige uno de los roles indicados. El guard de rutas ya redirige a
// los navegadores; esto cubre a los clientes de API que llegan con Bearer.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := GetSession(c)
		if s == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		for _, r := range roles {
			if s.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
	}
}
