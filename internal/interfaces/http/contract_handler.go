package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/studio-portal/internal/application/contract"
	"github.com/jhoicas/studio-portal/internal/application/dto"
)

// ContractHandler contratos: alta y envío (admin), consulta y firma (portal).
type ContractHandler struct {
	uc *contract.LifecycleUseCase
}

// NewContractHandler construye el handler.
func NewContractHandler(uc *contract.LifecycleUseCase) *ContractHandler {
	return &ContractHandler{uc: uc}
}

// Create godoc
// @Summary      Crear contrato en DRAFT
// @Description  multipart/form-data con title, customer_id y un archivo "document" o un campo "document_url".
// @Tags         contracts
// @Accept       mpfd
// @Produce      json
// @Success      201  {object}  dto.ContractResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /admin/contracts [post]
func (h *ContractHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContractRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	var upload *contract.Upload
	fh, err := c.FormFile("document")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			return respondError(c, err)
		}
		defer f.Close()
		upload = &contract.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		}
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
		// sin archivo: se espera document_url
	default:
		return invalidBody(c)
	}

	out, err := h.uc.Create(c.UserContext(), GetSession(c), in, upload)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /admin/contracts?status=SENT
func (h *ContractHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), GetSession(c), c.Query("status"), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Get GET /admin/contracts/:id y GET /portal/contracts/:id
func (h *ContractHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Send POST /admin/contracts/:id/send
func (h *ContractHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Expire POST /admin/contracts/:id/expire
func (h *ContractHandler) Expire(c *fiber.Ctx) error {
	out, err := h.uc.Expire(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMine GET /portal/contracts
func (h *ContractHandler) ListMine(c *fiber.Ctx) error {
	list, err := h.uc.ListForCaller(c.UserContext(), GetSession(c), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MarkViewed POST /portal/contracts/:id/view
func (h *ContractHandler) MarkViewed(c *fiber.Ctx) error {
	out, err := h.uc.MarkViewed(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Sign godoc
// @Summary      Firmar contrato
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "contract id"
// @Param        body  body  dto.SignContractRequest  true  "firma PNG en data-URI, nombre y aceptación"
// @Success      200   {object}  dto.ContractResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /portal/contracts/{id}/sign [post]
func (h *ContractHandler) Sign(c *fiber.Ctx) error {
	var in dto.SignContractRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Sign(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
