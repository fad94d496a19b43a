package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/application/lead"
)

// LeadHandler embudo público y gestión de leads.
type LeadHandler struct {
	uc *lead.UseCase
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *lead.UseCase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// Capture godoc
// @Summary      Capturar lead (encuesta, estimador o starter kit)
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CaptureLeadRequest  true  "lead"
// @Success      201   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Capture(c *fiber.Ctx) error {
	var in dto.CaptureLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Capture(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Estimate POST /api/estimate
func (h *LeadHandler) Estimate(c *fiber.Ctx) error {
	var in dto.EstimateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Estimate(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /admin/leads?status=NEW&limit=20&offset=0
func (h *LeadHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), c.Query("status"), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UpdateStatus PATCH /admin/leads/:id
func (h *LeadHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateLeadStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
