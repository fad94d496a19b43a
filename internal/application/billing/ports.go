package billing

import (
	"context"
	"time"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye facturas y bitácora.
type BillingTxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, customer *entity.Customer, items []*entity.InvoiceItem) ([]byte, error)
}

// PaymentEvent evento de la pasarela ya verificado.
type PaymentEvent struct {
	ID        string
	Type      string
	InvoiceID string // metadata.invoice_id
	PaymentID string // id del objeto pagado (checkout session o payment intent)
	Created   time.Time
}

// WebhookVerifier verifica la firma del webhook y decodifica el evento.
// Una firma inválida o vencida devuelve un error que envuelve domain.ErrUnauthorized.
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (*PaymentEvent, error)
}
