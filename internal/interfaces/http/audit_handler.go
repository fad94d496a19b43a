package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/usecase"
)

// AuditHandler consulta de la bitácora.
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List GET /admin/audit?entity_type=contract
func (h *AuditHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), c.Query("entity_type"), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
