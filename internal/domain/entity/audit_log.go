package entity

import "time"

// Acciones registradas en la bitácora.
const (
	AuditContractCreated  = "contract.created"
	AuditContractSent     = "contract.sent"
	AuditContractViewed   = "contract.viewed"
	AuditContractSigned   = "contract.signed"
	AuditContractExpired  = "contract.expired"
	AuditInvoiceCreated   = "invoice.created"
	AuditInvoiceIssued    = "invoice.issued"
	AuditInvoiceVoided    = "invoice.voided"
	AuditInvoicePaid      = "invoice.paid"
	AuditLeadStatusChange = "lead.status_changed"
)

// AuditLog entrada inmutable de la bitácora. ActorID vacío = sistema (webhooks).
type AuditLog struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
	CreatedAt  time.Time
}
