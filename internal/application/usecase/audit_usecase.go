package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

// AuditUseCase consulta de la bitácora (solo lectura).
type AuditUseCase struct {
	repo repository.AuditLogRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditLogRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// List entradas más recientes primero, filtrables por tipo de entidad.
func (uc *AuditUseCase) List(ctx context.Context, entityType string, page dto.PageRequest) ([]*dto.AuditLogResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.ToLower(strings.TrimSpace(entityType)), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AuditLogResponse, 0, len(list))
	for _, e := range list {
		out = append(out, &dto.AuditLogResponse{
			ID:         e.ID,
			ActorID:    e.ActorID,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Metadata:   e.Metadata,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out, nil
}
