package repository

import (
	"context"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para Project.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Project, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Project, error)
}
