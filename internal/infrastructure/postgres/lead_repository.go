package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, email, name, company, phone, source, status, answers, estimate_low, estimate_high,
	marketing_consent, created_at, updated_at`

// LeadRepo implementación de LeadRepository.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

// Upsert inserta o actualiza por email. En conflicto conserva id, status y
// created_at; el consentimiento solo se suma, nunca se retira por un envío posterior.
func (r *LeadRepo) Upsert(ctx context.Context, l *entity.Lead) (*entity.Lead, error) {
	query := `
		INSERT INTO leads (id, email, name, company, phone, source, status, answers, estimate_low, estimate_high,
			marketing_consent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), leads.name),
			company = COALESCE(NULLIF(EXCLUDED.company, ''), leads.company),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
			source = EXCLUDED.source,
			answers = leads.answers || EXCLUDED.answers,
			estimate_low = COALESCE(EXCLUDED.estimate_low, leads.estimate_low),
			estimate_high = COALESCE(EXCLUDED.estimate_high, leads.estimate_high),
			marketing_consent = leads.marketing_consent OR EXCLUDED.marketing_consent,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + leadColumns
	row := r.q.QueryRow(ctx, query,
		l.ID, l.Email, l.Name, l.Company, l.Phone, string(l.Source), string(l.Status), jsonbMap(l.Answers),
		l.EstimateLow, l.EstimateHigh, l.MarketingConsent, l.CreatedAt, l.UpdatedAt,
	)
	out, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("upsert lead: %w", err)
	}
	return out, nil
}

// GetByID obtiene un lead por ID.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	if !validID(id) {
		return nil, nil
	}
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// List leads más recientes primero; status vacío = todos.
func (r *LeadRepo) List(ctx context.Context, status entity.LeadStatus, limit, offset int) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateStatus cambia la etapa comercial.
func (r *LeadRepo) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus cuenta leads por etapa.
func (r *LeadRepo) CountByStatus(ctx context.Context) (map[entity.LeadStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	defer rows.Close()
	out := map[entity.LeadStatus]int{}
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, fmt.Errorf("scan lead count: %w", err)
		}
		out[entity.LeadStatus(s)] = n
	}
	return out, rows.Err()
}

// ExistsByEmail consulta usada por el guard del portal.
func (r *LeadRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lead exists: %w", err)
	}
	return exists, nil
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	var source, status string
	err := row.Scan(
		&l.ID, &l.Email, &l.Name, &l.Company, &l.Phone, &source, &status, &l.Answers,
		&l.EstimateLow, &l.EstimateHigh, &l.MarketingConsent, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Source = entity.LeadSource(source)
	l.Status = entity.LeadStatus(status)
	return &l, nil
}
