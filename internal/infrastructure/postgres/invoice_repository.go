package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, customer_id, number, status, currency, subtotal, tax_total, total, due_date,
	issued_at, paid_at, COALESCE(payment_ref, ''), created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, customer_id, number, status, currency, subtotal, tax_total, total, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerID, invoice.Number, string(invoice.Status), invoice.Currency,
		invoice.Subtotal, invoice.TaxTotal, invoice.Total, invoice.DueDate,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, tax_rate, subtotal, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice,
		item.TaxRate, item.Subtotal, item.Position,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if !validID(id) {
		return nil, nil
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItems líneas en el orden en que se capturaron.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	if !validID(invoiceID) {
		return nil, nil
	}
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, tax_rate, subtotal, position
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice,
			&it.TaxRate, &it.Subtotal, &it.Position); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByCustomer facturas de un cliente, más recientes primero.
func (r *InvoiceRepo) ListByCustomer(ctx context.Context, customerID string, includeDrafts bool, limit, offset int) ([]*entity.Invoice, error) {
	if !validID(customerID) {
		return nil, nil
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE customer_id = $1 AND ($2 OR status <> 'DRAFT')
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(ctx, query, customerID, includeDrafts, limit, offset)
}

// List todas las facturas; status vacío = sin filtro.
func (r *InvoiceRepo) List(ctx context.Context, status entity.InvoiceStatus, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, string(status), limit, offset)
}

// OpenTotal suma y conteo de facturas OPEN.
func (r *InvoiceRepo) OpenTotal(ctx context.Context, customerID string) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM invoices
		WHERE status = 'OPEN' AND ($1 = '' OR customer_id::text = $1)`
	var total decimal.Decimal
	var n int
	if err := r.q.QueryRow(ctx, query, customerID).Scan(&total, &n); err != nil {
		return decimal.Zero, 0, fmt.Errorf("open total: %w", err)
	}
	return total, n, nil
}

// UpdateStatus compare-and-set del estado. Al pasar a OPEN se fija issued_at.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id string, from []entity.InvoiceStatus, to entity.InvoiceStatus, at time.Time) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	query := `
		UPDATE invoices
		SET status     = $3,
		    issued_at  = CASE WHEN $3 = 'OPEN' THEN $4 ELSE issued_at END,
		    updated_at = $4
		WHERE id = $1 AND status = ANY($2)`
	tag, err := r.q.Exec(ctx, query, id, invoiceStatusStrings(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("update invoice status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPaid solo aplica sobre una factura OPEN; un reintento del webhook no cambia nada.
// Un invoice_id que no es UUID no corresponde a ninguna factura: false sin error.
func (r *InvoiceRepo) MarkPaid(ctx context.Context, id string, paymentRef string, at time.Time) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	query := `
		UPDATE invoices
		SET status = 'PAID', paid_at = $3, payment_ref = $2, updated_at = $3
		WHERE id = $1 AND status = 'OPEN'`
	tag, err := r.q.Exec(ctx, query, id, paymentRef, at)
	if err != nil {
		return false, fmt.Errorf("mark invoice paid: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.CustomerID, &inv.Number, &status, &inv.Currency,
		&inv.Subtotal, &inv.TaxTotal, &inv.Total, &inv.DueDate,
		&inv.IssuedAt, &inv.PaidAt, &inv.PaymentRef, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	return &inv, nil
}

func invoiceStatusStrings(in []entity.InvoiceStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
