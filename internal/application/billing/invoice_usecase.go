package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

const (
	invoiceEntity   = "invoice"
	defaultCurrency = "USD"
	dateLayout      = "2006-01-02"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// InvoiceUseCase alta, emisión, anulación y consulta de facturas.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner BillingTxRunner, invoiceRepo repository.InvoiceRepository, customerRepo repository.CustomerRepository) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// taxRateDecimal normaliza la tasa: 19 y 0.19 son lo mismo. Desde 1 se lee como
// porcentaje, así que 1 es 1% y el 100% se escribe 100.
func taxRateDecimal(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThanOrEqual(one) {
		return rate.Div(hundred)
	}
	return rate
}

// Create crea la factura en DRAFT con sus líneas y totales, y la registra en la bitácora.
func (uc *InvoiceUseCase) Create(ctx context.Context, actor *auth.Session, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" {
		return nil, domain.NewValidationError("customer_id", "customer_id es requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la factura necesita al menos una línea")
	}
	due, err := time.Parse(dateLayout, strings.TrimSpace(in.DueDate))
	if err != nil {
		return nil, domain.NewValidationError("due_date", "formato esperado YYYY-MM-DD")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return nil, domain.NewValidationError("currency", "código ISO de 3 letras")
	}

	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Status:     entity.InvoiceStatusDraft,
		Currency:   currency,
		DueDate:    due,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	inv.Number = fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(inv.ID[:8]))

	items := make([]*entity.InvoiceItem, 0, len(in.Items))
	var netTotal, taxTotal decimal.Decimal
	for i, it := range in.Items {
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].description", i), "descripción requerida")
		}
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "la cantidad debe ser positiva")
		}
		if it.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "el precio no puede ser negativo")
		}
		rate := taxRateDecimal(it.TaxRate)
		if rate.LessThan(decimal.Zero) || rate.GreaterThan(one) {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].tax_rate", i), "tasa fuera de rango")
		}
		subtotal := it.Quantity.Mul(it.UnitPrice).Round(2)
		netTotal = netTotal.Add(subtotal)
		taxTotal = taxTotal.Add(subtotal.Mul(rate).Round(2))
		items = append(items, &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     rate,
			Subtotal:    subtotal,
			Position:    i + 1,
		})
	}
	inv.Subtotal = netTotal
	inv.TaxTotal = taxTotal
	inv.Total = netTotal.Add(taxTotal)

	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, auditRepo repository.AuditLogRepository) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return auditRepo.Create(ctx, auditEntry(actorID(actor), entity.AuditInvoiceCreated, inv.ID, now, map[string]any{
			"number": inv.Number,
			"total":  inv.Total.StringFixed(2),
		}))
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// Issue DRAFT -> OPEN: la factura pasa a ser visible y cobrable.
func (uc *InvoiceUseCase) Issue(ctx context.Context, actor *auth.Session, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, actor, id, []entity.InvoiceStatus{entity.InvoiceStatusDraft}, entity.InvoiceStatusOpen, entity.AuditInvoiceIssued)
}

// Void {DRAFT, OPEN} -> VOID. Una factura pagada no se anula.
func (uc *InvoiceUseCase) Void(ctx context.Context, actor *auth.Session, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, actor, id, []entity.InvoiceStatus{entity.InvoiceStatusDraft, entity.InvoiceStatusOpen}, entity.InvoiceStatusVoid, entity.AuditInvoiceVoided)
}

func (uc *InvoiceUseCase) transition(ctx context.Context, actor *auth.Session, id string, from []entity.InvoiceStatus, to entity.InvoiceStatus, action string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, auditRepo repository.AuditLogRepository) error {
		ok, err := invoiceRepo.UpdateStatus(ctx, id, from, to, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("factura en estado %s: %w", inv.Status, domain.ErrConflict)
		}
		return auditRepo.Create(ctx, auditEntry(actorID(actor), action, id, now, map[string]any{
			"from": string(inv.Status),
			"to":   string(to),
		}))
	})
	if err != nil {
		return nil, err
	}
	return uc.load(ctx, id)
}

// Get devuelve la factura si el llamador es su dueño o administrador.
// Para un cliente un DRAFT no existe.
func (uc *InvoiceUseCase) Get(ctx context.Context, caller *auth.Session, id string) (*dto.InvoiceResponse, error) {
	inv, err := fetchVisible(ctx, uc.invoiceRepo, caller, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// ListForCaller facturas del cliente de la sesión, sin borradores.
func (uc *InvoiceUseCase) ListForCaller(ctx context.Context, caller *auth.Session, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	if caller == nil || caller.CustomerID == "" {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByCustomer(ctx, caller.CustomerID, false, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toInvoiceList(list), nil
}

// List listado administrativo con filtro de estado opcional.
func (uc *InvoiceUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	var filter entity.InvoiceStatus
	if status != "" {
		filter = entity.InvoiceStatus(strings.ToUpper(status))
		if !filter.Valid() {
			return nil, domain.NewValidationError("status", "estado desconocido")
		}
	}
	page.DefaultPage()
	list, err := uc.invoiceRepo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toInvoiceList(list), nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

func fetchVisible(ctx context.Context, repo repository.InvoiceRepository, caller *auth.Session, id string) (*entity.Invoice, error) {
	if caller == nil || id == "" {
		return nil, domain.ErrNotFound
	}
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || !caller.Owns(inv.CustomerID) {
		return nil, domain.ErrNotFound
	}
	if !caller.IsAdmin() && inv.Status == entity.InvoiceStatusDraft {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func actorID(s *auth.Session) string {
	if s == nil {
		return ""
	}
	return s.UserID
}

func auditEntry(actor, action, id string, at time.Time, meta map[string]any) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    actor,
		Action:     action,
		EntityType: invoiceEntity,
		EntityID:   id,
		Metadata:   meta,
		CreatedAt:  at,
	}
}

func toInvoiceList(list []*entity.Invoice) []*dto.InvoiceResponse {
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, nil))
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Number:     inv.Number,
		Status:     string(inv.Status),
		Currency:   inv.Currency,
		Subtotal:   inv.Subtotal,
		TaxTotal:   inv.TaxTotal,
		Total:      inv.Total,
		DueDate:    inv.DueDate.Format(dateLayout),
		IssuedAt:   inv.IssuedAt,
		PaidAt:     inv.PaidAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}
