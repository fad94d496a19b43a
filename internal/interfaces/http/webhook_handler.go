package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/billing"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
)

// StripeSignatureHeader cabecera de firma de los webhooks de pago.
const StripeSignatureHeader = "Stripe-Signature"

// WebhookHandler recibe los eventos de la pasarela de pagos.
type WebhookHandler struct {
	uc *billing.PaymentUseCase
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(uc *billing.PaymentUseCase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

// Stripe POST /api/webhooks/stripe
// La firma se calcula sobre el cuerpo crudo: no pasar por BodyParser.
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)
	ack, err := h.uc.HandleWebhook(c.UserContext(), payload, c.Get(StripeSignatureHeader))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma del webhook inválida"})
		}
		return respondError(c, err)
	}
	return c.JSON(ack)
}
