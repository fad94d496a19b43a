package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /admin/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInvoiceRequest body para POST /admin/invoices.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id"`
	Currency   string               `json:"currency"`
	DueDate    string               `json:"due_date"` // YYYY-MM-DD
	Items      []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura. TaxRate acepta fracción (0.19) o porcentaje (19);
// los valores desde 1 son porcentaje (1 = 1%).
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID         string                `json:"id"`
	CustomerID string                `json:"customer_id"`
	Number     string                `json:"number"`
	Status     string                `json:"status"`
	Currency   string                `json:"currency"`
	Subtotal   decimal.Decimal       `json:"subtotal"`
	TaxTotal   decimal.Decimal       `json:"tax_total"`
	Total      decimal.Decimal       `json:"total"`
	DueDate    string                `json:"due_date"`
	IssuedAt   *time.Time            `json:"issued_at,omitempty"`
	PaidAt     *time.Time            `json:"paid_at,omitempty"`
	Items      []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse línea de detalle en la respuesta.
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// WebhookAck respuesta a la pasarela de pagos.
type WebhookAck struct {
	Received bool   `json:"received"`
	Applied  bool   `json:"applied"`
	Event    string `json:"event,omitempty"`
}
