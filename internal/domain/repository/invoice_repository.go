package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	ListByCustomer(ctx context.Context, customerID string, includeDrafts bool, limit, offset int) ([]*entity.Invoice, error)
	List(ctx context.Context, status entity.InvoiceStatus, limit, offset int) ([]*entity.Invoice, error)
	// OpenTotal suma de facturas OPEN (customerID vacío = todas).
	OpenTotal(ctx context.Context, customerID string) (decimal.Decimal, int, error)

	UpdateStatus(ctx context.Context, id string, from []entity.InvoiceStatus, to entity.InvoiceStatus, at time.Time) (bool, error)
	MarkPaid(ctx context.Context, id string, paymentRef string, at time.Time) (bool, error)
}
