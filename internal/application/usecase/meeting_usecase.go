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

const defaultMeetingMinutes = 30

// MeetingUseCase agenda de reuniones con clientes.
type MeetingUseCase struct {
	repo         repository.MeetingRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewMeetingUseCase construye el caso de uso.
func NewMeetingUseCase(repo repository.MeetingRepository, customerRepo repository.CustomerRepository) *MeetingUseCase {
	return &MeetingUseCase{repo: repo, customerRepo: customerRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *MeetingUseCase) WithClock(now func() time.Time) *MeetingUseCase {
	uc.now = now
	return uc
}

// Create agenda una reunión.
func (uc *MeetingUseCase) Create(ctx context.Context, in dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title es requerido")
	}
	if in.ScheduledAt.IsZero() {
		return nil, domain.NewValidationError("scheduled_at", "scheduled_at es requerido")
	}
	if in.DurationMin < 0 {
		return nil, domain.NewValidationError("duration_min", "la duración no puede ser negativa")
	}
	if err := requireCustomer(ctx, uc.customerRepo, in.CustomerID); err != nil {
		return nil, err
	}
	duration := in.DurationMin
	if duration == 0 {
		duration = defaultMeetingMinutes
	}
	m := &entity.Meeting{
		ID:          uuid.New().String(),
		CustomerID:  in.CustomerID,
		Title:       title,
		ScheduledAt: in.ScheduledAt.UTC(),
		DurationMin: duration,
		Location:    strings.TrimSpace(in.Location),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMeetingResponse(m, uc.now()), nil
}

// List listado administrativo.
func (uc *MeetingUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.MeetingResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]*dto.MeetingResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMeetingResponse(m, now))
	}
	return out, nil
}

// ListForCaller reuniones del cliente: primero las próximas, luego las pasadas.
func (uc *MeetingUseCase) ListForCaller(ctx context.Context, caller *auth.Session) ([]*dto.MeetingResponse, error) {
	if caller == nil || caller.CustomerID == "" {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	list, err := uc.repo.ListByCustomer(ctx, caller.CustomerID, now)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MeetingResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMeetingResponse(m, now))
	}
	return out, nil
}

func toMeetingResponse(m *entity.Meeting, now time.Time) *dto.MeetingResponse {
	return &dto.MeetingResponse{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Title:       m.Title,
		ScheduledAt: m.ScheduledAt,
		DurationMin: m.DurationMin,
		Location:    m.Location,
		Notes:       m.Notes,
		Upcoming:    !m.ScheduledAt.Before(now),
	}
}
