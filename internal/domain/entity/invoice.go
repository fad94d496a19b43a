package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de cobro de una factura.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT" // editable, no visible en el portal
	InvoiceStatusOpen  InvoiceStatus = "OPEN"  // emitida, pendiente de pago
	InvoiceStatusPaid  InvoiceStatus = "PAID"
	InvoiceStatusVoid  InvoiceStatus = "VOID"
)

// Valid indica si el estado es conocido.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// Invoice cabecera de una factura.
type Invoice struct {
	ID         string
	CustomerID string
	Number     string
	Status     InvoiceStatus
	Currency   string
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	Total      decimal.Decimal
	DueDate    time.Time
	IssuedAt   *time.Time
	PaidAt     *time.Time
	PaymentRef string // id del evento/pago en la pasarela
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InvoiceItem línea de factura.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // fracción 0..1
	Subtotal    decimal.Decimal
	Position    int
}
