package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/studio-portal/internal/application/billing"
	"github.com/jhoicas/studio-portal/internal/application/contract"
	"github.com/jhoicas/studio-portal/internal/application/lead"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

var (
	_ contract.TxRunner       = (*TxRunner)(nil)
	_ billing.BillingTxRunner = (*TxRunner)(nil)
	_ lead.TxRunner           = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunContract transacción con repos de contratos y bitácora.
func (r *TxRunner) RunContract(ctx context.Context, fn func(
	contracts repository.ContractRepository,
	audit repository.AuditLogRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewContractRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunInvoice transacción con repos de facturas y bitácora.
func (r *TxRunner) RunInvoice(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewInvoiceRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunLead transacción con repos de leads y bitácora.
func (r *TxRunner) RunLead(ctx context.Context, fn func(
	leads repository.LeadRepository,
	audit repository.AuditLogRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewLeadRepository(tx), NewAuditLogRepository(tx))
	})
}

// run inicia la transacción, ejecuta fn y hace Commit; cualquier error deja Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
