package repository

import (
	"context"
	"time"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

// MeetingRepository define el puerto de persistencia para Meeting.
type MeetingRepository interface {
	Create(ctx context.Context, m *entity.Meeting) error
	// ListByCustomer devuelve primero las próximas (desde since) y luego las pasadas.
	ListByCustomer(ctx context.Context, customerID string, since time.Time) ([]*entity.Meeting, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Meeting, error)
}
