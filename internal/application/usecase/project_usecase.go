package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ProjectUseCase proyectos por cliente.
type ProjectUseCase struct {
	repo         repository.ProjectRepository
	customerRepo repository.CustomerRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository, customerRepo repository.CustomerRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, customerRepo: customerRepo}
}

// Create registra un proyecto. Sin estado explícito arranca en PLANNING.
func (uc *ProjectUseCase) Create(ctx context.Context, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name es requerido")
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	switch status {
	case "":
		status = entity.ProjectStatusPlanning
	case entity.ProjectStatusPlanning, entity.ProjectStatusInProgress, entity.ProjectStatusReview, entity.ProjectStatusDone:
	default:
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	started, err := optionalDate("started_at", in.StartedAt)
	if err != nil {
		return nil, err
	}
	due, err := optionalDate("due_at", in.DueAt)
	if err != nil {
		return nil, err
	}
	if started != nil && due != nil && due.Before(*started) {
		return nil, domain.NewValidationError("due_at", "la entrega no puede ser anterior al inicio")
	}
	if err := requireCustomer(ctx, uc.customerRepo, in.CustomerID); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Project{
		ID:          uuid.New().String(),
		CustomerID:  in.CustomerID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		StartedAt:   started,
		DueAt:       due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// List listado administrativo.
func (uc *ProjectUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ProjectResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProjectList(list), nil
}

// ListForCaller proyectos del cliente de la sesión.
func (uc *ProjectUseCase) ListForCaller(ctx context.Context, caller *auth.Session) ([]*dto.ProjectResponse, error) {
	if caller == nil || caller.CustomerID == "" {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListByCustomer(ctx, caller.CustomerID)
	if err != nil {
		return nil, err
	}
	return toProjectList(list), nil
}

func optionalDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "formato esperado YYYY-MM-DD")
	}
	return &t, nil
}

func requireCustomer(ctx context.Context, repo repository.CustomerRepository, id string) error {
	if id == "" {
		return domain.NewValidationError("customer_id", "customer_id es requerido")
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}

func toProjectList(list []*entity.Project) []*dto.ProjectResponse {
	out := make([]*dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	return out
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		StartedAt:   p.StartedAt,
		DueAt:       p.DueAt,
	}
}
