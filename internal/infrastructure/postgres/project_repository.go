package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

const projectColumns = `id, customer_id, name, description, status, started_at, due_at, created_at, updated_at`

// ProjectRepo implementación de ProjectRepository.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador.
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Create persiste un proyecto.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (id, customer_id, name, description, status, started_at, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CustomerID, p.Name, p.Description, p.Status, p.StartedAt, p.DueAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// ListByCustomer proyectos de un cliente, más recientes primero.
func (r *ProjectRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Project, error) {
	if !validID(customerID) {
		return nil, nil
	}
	query := `SELECT ` + projectColumns + ` FROM projects WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, customerID)
}

// List todos los proyectos.
func (r *ProjectRepo) List(ctx context.Context, limit, offset int) ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *ProjectRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Project, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Name, &p.Description, &p.Status,
			&p.StartedAt, &p.DueAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
