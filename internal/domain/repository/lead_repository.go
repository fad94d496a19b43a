package repository

import (
	"context"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

// LeadRepository define el puerto de persistencia para Lead.
type LeadRepository interface {
	// Upsert inserta o actualiza por email; devuelve el lead resultante.
	Upsert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	List(ctx context.Context, status entity.LeadStatus, limit, offset int) ([]*entity.Lead, error)
	UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error
	CountByStatus(ctx context.Context) (map[entity.LeadStatus]int, error)
	LeadExistenceChecker
}

// LeadExistenceChecker es lo único que necesita el guard de rutas.
type LeadExistenceChecker interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
