package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora de solo inserción; no expone Update ni Delete.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Dentro de una tx, la entrada
// se confirma o descarta junto con el cambio que registra.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		e.ID, nullIfEmpty(e.ActorID), e.Action, e.EntityType, e.EntityID, jsonbMap(e.Metadata), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List entradas más recientes primero; entityType vacío = todas.
func (r *AuditLogRepo) List(ctx context.Context, entityType string, limit, offset int) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, actor_id, action, entity_type, entity_id, metadata, created_at
		FROM audit_logs
		WHERE ($1 = '' OR entity_type = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, entityType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var e entity.AuditLog
		var actorID *string
		if err := rows.Scan(&e.ID, &actorID, &e.Action, &e.EntityType, &e.EntityID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		e.ActorID = derefString(actorID)
		list = append(list, &e)
	}
	return list, rows.Err()
}
