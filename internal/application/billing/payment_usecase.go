package billing

import (
	"context"
	"time"

	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
	"github.com/jhoicas/studio-portal/pkg/logger"
)

// Eventos de la pasarela que liquidan una factura.
const (
	EventCheckoutCompleted      = "checkout.session.completed"
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
)

// PaymentUseCase aplica los webhooks de la pasarela de pagos.
type PaymentUseCase struct {
	verifier WebhookVerifier
	txRunner BillingTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(verifier WebhookVerifier, txRunner BillingTxRunner, log *logger.Logger) *PaymentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentUseCase{verifier: verifier, txRunner: txRunner, log: log.Component("payments"), now: time.Now}
}

// HandleWebhook verifica la firma y, si el evento liquida una factura, la marca
// PAID con compare-and-set desde OPEN. Un evento repetido o sobre una factura
// que no está OPEN se reconoce sin cambios para que la pasarela no reintente.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (*dto.WebhookAck, error) {
	ev, err := uc.verifier.Verify(payload, signatureHeader)
	if err != nil {
		return nil, err
	}
	ack := &dto.WebhookAck{Received: true, Event: ev.Type}
	if ev.Type != EventCheckoutCompleted && ev.Type != EventPaymentIntentSucceeded {
		return ack, nil
	}
	if ev.InvoiceID == "" {
		uc.log.Warn().Str("event_id", ev.ID).Str("type", ev.Type).Msg("evento de pago sin metadata.invoice_id")
		return ack, nil
	}

	now := uc.now()
	paymentRef := ev.PaymentID
	if paymentRef == "" {
		paymentRef = ev.ID
	}
	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, auditRepo repository.AuditLogRepository) error {
		ok, err := invoiceRepo.MarkPaid(ctx, ev.InvoiceID, paymentRef, now)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		ack.Applied = true
		return auditRepo.Create(ctx, auditEntry("", entity.AuditInvoicePaid, ev.InvoiceID, now, map[string]any{
			"event_id":    ev.ID,
			"event_type":  ev.Type,
			"payment_ref": paymentRef,
		}))
	})
	if err != nil {
		ack.Applied = false
		return nil, err
	}
	if !ack.Applied {
		uc.log.Info().Str("event_id", ev.ID).Str("invoice_id", ev.InvoiceID).Msg("evento de pago sin efecto (ya pagada o no emitida)")
	}
	return ack, nil
}
