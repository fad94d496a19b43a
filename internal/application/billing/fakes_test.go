package billing_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/studio-portal/internal/application/billing"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

type memInvoices struct {
	mu    sync.Mutex
	rows  map[string]entity.Invoice
	items map[string][]*entity.InvoiceItem
}

func newMemInvoices(invs ...entity.Invoice) *memInvoices {
	m := &memInvoices{rows: map[string]entity.Invoice{}, items: map[string][]*entity.InvoiceItem{}}
	for _, inv := range invs {
		m.rows[inv.ID] = inv
	}
	return m
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[inv.ID] = *inv
	return nil
}

func (m *memInvoices) CreateItem(_ context.Context, it *entity.InvoiceItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.InvoiceID] = append(m.items[it.InvoiceID], it)
	return nil
}

func (m *memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (m *memInvoices) GetItems(_ context.Context, id string) ([]*entity.InvoiceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *memInvoices) ListByCustomer(_ context.Context, customerID string, includeDrafts bool, _, _ int) ([]*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range m.rows {
		if inv.CustomerID != customerID || (!includeDrafts && inv.Status == entity.InvoiceStatusDraft) {
			continue
		}
		out = append(out, &inv)
	}
	return out, nil
}

func (m *memInvoices) List(_ context.Context, status entity.InvoiceStatus, _, _ int) ([]*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range m.rows {
		if status == "" || inv.Status == status {
			out = append(out, &inv)
		}
	}
	return out, nil
}

func (m *memInvoices) OpenTotal(_ context.Context, customerID string) (decimal.Decimal, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total, n := decimal.Zero, 0
	for _, inv := range m.rows {
		if inv.Status == entity.InvoiceStatusOpen && (customerID == "" || inv.CustomerID == customerID) {
			total = total.Add(inv.Total)
			n++
		}
	}
	return total, n, nil
}

func (m *memInvoices) UpdateStatus(_ context.Context, id string, from []entity.InvoiceStatus, to entity.InvoiceStatus, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.rows[id]
	if !ok || !slices.Contains(from, inv.Status) {
		return false, nil
	}
	inv.Status = to
	inv.UpdatedAt = at
	if to == entity.InvoiceStatusOpen {
		inv.IssuedAt = &at
	}
	m.rows[id] = inv
	return true, nil
}

func (m *memInvoices) MarkPaid(_ context.Context, id, ref string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.rows[id]
	if !ok || inv.Status != entity.InvoiceStatusOpen {
		return false, nil
	}
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidAt = &at
	inv.PaymentRef = ref
	m.rows[id] = inv
	return true, nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (a *memAudit) Create(_ context.Context, e *entity.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
	return nil
}

func (a *memAudit) List(_ context.Context, _ string, _, _ int) ([]*entity.AuditLog, error) {
	return a.entries, nil
}

type memTx struct {
	mu       sync.Mutex
	invoices *memInvoices
	audit    *memAudit
}

func (t *memTx) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository, repository.AuditLogRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.invoices, t.audit)
}

type memCustomers struct {
	byID map[string]*entity.Customer
}

func (f *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	f.byID[c.ID] = c
	return nil
}
func (f *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return f.byID[id], nil
}
func (f *memCustomers) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, c := range f.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}
func (f *memCustomers) List(_ context.Context, _, _ int) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

// staticVerifier devuelve siempre el mismo evento, o err.
type staticVerifier struct {
	ev  *billing.PaymentEvent
	err error
}

func (v *staticVerifier) Verify(_ []byte, _ string) (*billing.PaymentEvent, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.ev, nil
}

type recordingPDF struct {
	gotItems int
}

func (r *recordingPDF) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice, _ *entity.Customer, items []*entity.InvoiceItem) ([]byte, error) {
	r.gotItems = len(items)
	return []byte("%PDF-1.4"), nil
}
