package repository

import (
	"context"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

// AuditLogRepository bitácora de solo inserción.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
	List(ctx context.Context, entityType string, limit, offset int) ([]*entity.AuditLog, error)
}
