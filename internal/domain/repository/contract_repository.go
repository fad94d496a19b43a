package repository

import (
	"context"
	"time"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

// ContractRepository define el puerto de persistencia para Contract.
// Las escrituras de estado son compare-and-set: solo aplican si el estado actual
// está en from, y devuelven false (sin error) cuando no coincidió ninguna fila.
type ContractRepository interface {
	Create(ctx context.Context, c *entity.Contract) error
	GetByID(ctx context.Context, id string) (*entity.Contract, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Contract, error)
	List(ctx context.Context, status entity.ContractStatus, limit, offset int) ([]*entity.Contract, error)
	CountByStatus(ctx context.Context, customerID string) (map[entity.ContractStatus]int, error)

	UpdateStatus(ctx context.Context, id string, from []entity.ContractStatus, to entity.ContractStatus, at time.Time) (bool, error)
	MarkSigned(ctx context.Context, id string, from []entity.ContractStatus, sig entity.ContractSignature) (bool, error)
}
