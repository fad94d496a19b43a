package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

var _ repository.ContractRepository = (*ContractRepo)(nil)

const contractColumns = `id, customer_id, title, document_ref, status, signer_name, signed_at, signature_ref,
	sent_at, viewed_at, created_at, updated_at`

// ContractRepo implementación de ContractRepository (usable con pool o tx).
type ContractRepo struct {
	q Querier
}

// NewContractRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

// Create persiste un contrato nuevo (siempre en DRAFT).
func (r *ContractRepo) Create(ctx context.Context, c *entity.Contract) error {
	query := `
		INSERT INTO contracts (id, customer_id, title, document_ref, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CustomerID, c.Title, c.DocumentRef, string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato por ID.
func (r *ContractRepo) GetByID(ctx context.Context, id string) (*entity.Contract, error) {
	if !validID(id) {
		return nil, nil
	}
	c, err := scanContract(r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

// ListByCustomer contratos de un cliente, más recientes primero.
func (r *ContractRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Contract, error) {
	if !validID(customerID) {
		return nil, nil
	}
	query := `SELECT ` + contractColumns + ` FROM contracts
		WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, customerID, limit, offset)
}

// List todos los contratos; status vacío = sin filtro.
func (r *ContractRepo) List(ctx context.Context, status entity.ContractStatus, limit, offset int) ([]*entity.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
		WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, string(status), limit, offset)
}

// CountByStatus conteo por estado; customerID vacío = todos los clientes.
func (r *ContractRepo) CountByStatus(ctx context.Context, customerID string) (map[entity.ContractStatus]int, error) {
	query := `
		SELECT status, COUNT(*) FROM contracts
		WHERE ($1 = '' OR customer_id::text = $1)
		GROUP BY status`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("count contracts: %w", err)
	}
	defer rows.Close()
	out := map[entity.ContractStatus]int{}
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, fmt.Errorf("scan contract count: %w", err)
		}
		out[entity.ContractStatus(s)] = n
	}
	return out, rows.Err()
}

// UpdateStatus compare-and-set. sent_at y viewed_at se fijan según el destino.
func (r *ContractRepo) UpdateStatus(ctx context.Context, id string, from []entity.ContractStatus, to entity.ContractStatus, at time.Time) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	query := `
		UPDATE contracts
		SET status     = $3,
		    sent_at    = CASE WHEN $3 = 'SENT' THEN $4 ELSE sent_at END,
		    viewed_at  = CASE WHEN $3 = 'VIEWED' THEN $4 ELSE viewed_at END,
		    updated_at = $4
		WHERE id = $1 AND status = ANY($2)`
	tag, err := r.q.Exec(ctx, query, id, contractStatusStrings(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("update contract status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkSigned escribe estado y datos de firma en una sola sentencia.
func (r *ContractRepo) MarkSigned(ctx context.Context, id string, from []entity.ContractStatus, sig entity.ContractSignature) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	query := `
		UPDATE contracts
		SET status        = 'SIGNED',
		    signer_name   = $3,
		    signed_at     = $4,
		    signature_ref = $5,
		    updated_at    = $4
		WHERE id = $1 AND status = ANY($2)`
	tag, err := r.q.Exec(ctx, query, id, contractStatusStrings(from), sig.SignerName, sig.SignedAt, sig.SignatureRef)
	if err != nil {
		return false, fmt.Errorf("mark contract signed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ContractRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Contract, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanContract(row pgx.Row) (*entity.Contract, error) {
	var c entity.Contract
	var status string
	err := row.Scan(
		&c.ID, &c.CustomerID, &c.Title, &c.DocumentRef, &status, &c.SignerName, &c.SignedAt, &c.SignatureRef,
		&c.SentAt, &c.ViewedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = entity.ContractStatus(status)
	return &c, nil
}

func contractStatusStrings(in []entity.ContractStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
