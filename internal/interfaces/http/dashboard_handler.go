package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/analytics"
)

// DashboardHandler resúmenes de inicio de /admin y /portal.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Admin godoc
// @Summary      Resumen del back office
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.AdminDashboardResponse
// @Router       /admin [get]
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	out, err := h.uc.AdminSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Portal GET /portal
func (h *DashboardHandler) Portal(c *fiber.Ctx) error {
	out, err := h.uc.PortalSummary(c.UserContext(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
