package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/estimate"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

// Currency moneda de las estimaciones públicas.
const Currency = "USD"

// TxRunner transacción con repos de leads y bitácora.
type TxRunner interface {
	RunLead(ctx context.Context, fn func(leads repository.LeadRepository, audit repository.AuditLogRepository) error) error
}

// UseCase embudo de captación: encuesta, estimador y starter kit.
type UseCase struct {
	repo     repository.LeadRepository
	txRunner TxRunner
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.LeadRepository, txRunner TxRunner) *UseCase {
	return &UseCase{repo: repo, txRunner: txRunner, now: time.Now}
}

// Estimate calcula el rango sin persistir nada.
func (uc *UseCase) Estimate(in dto.EstimateRequest) (*dto.EstimateResponse, error) {
	res, err := estimate.Calculate(estimate.Input{
		ProjectType: estimate.ProjectType(in.ProjectType),
		Pages:       in.Pages,
		Features:    in.Features,
		Rush:        in.Rush,
	})
	if err != nil {
		return nil, err
	}
	return &dto.EstimateResponse{Low: res.Low, High: res.High, Currency: Currency}, nil
}

// Capture registra o actualiza un lead por email. Un visitante que vuelve
// actualiza sus respuestas; el estado comercial no se reinicia.
func (uc *UseCase) Capture(ctx context.Context, in dto.CaptureLeadRequest) (*dto.LeadResponse, error) {
	email := auth.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "email inválido")
	}
	source := entity.LeadSource(strings.ToUpper(strings.TrimSpace(in.Source)))
	if !source.Valid() {
		return nil, domain.NewValidationError("source", "fuente desconocida")
	}
	if source == entity.LeadSourceStarterKit && !in.MarketingConsent {
		return nil, domain.NewValidationError("marketing_consent", "el starter kit requiere consentimiento")
	}

	now := uc.now()
	l := &entity.Lead{
		ID:               uuid.New().String(),
		Email:            email,
		Name:             cleanText(in.Name),
		Company:          cleanText(in.Company),
		Phone:            strings.TrimSpace(in.Phone),
		Source:           source,
		Status:           entity.LeadStatusNew,
		Answers:          in.Answers,
		MarketingConsent: in.MarketingConsent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if source == entity.LeadSourceEstimator {
		if in.Estimate == nil {
			return nil, domain.NewValidationError("estimate", "el estimador requiere sus respuestas")
		}
		est, err := uc.Estimate(*in.Estimate)
		if err != nil {
			return nil, domain.NewValidationError("estimate", err.Error())
		}
		l.EstimateLow = decimal.NewNullDecimal(est.Low)
		l.EstimateHigh = decimal.NewNullDecimal(est.High)
		if l.Answers == nil {
			l.Answers = map[string]any{}
		}
		l.Answers["estimate_input"] = in.Estimate
	}

	saved, err := uc.repo.Upsert(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("guardar lead: %w", err)
	}
	return toResponse(saved), nil
}

// List listado administrativo, filtrable por estado.
func (uc *UseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*dto.LeadResponse, error) {
	var filter entity.LeadStatus
	if status != "" {
		filter = entity.LeadStatus(strings.ToUpper(status))
		if !filter.Valid() {
			return nil, domain.NewValidationError("status", "estado desconocido")
		}
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LeadResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toResponse(l))
	}
	return out, nil
}

// UpdateStatus cambia la etapa comercial y lo deja en la bitácora.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor *auth.Session, id string, in dto.UpdateLeadStatusRequest) (*dto.LeadResponse, error) {
	status := entity.LeadStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if current.Status == status {
		return toResponse(current), nil
	}
	actorID := ""
	if actor != nil {
		actorID = actor.UserID
	}
	err = uc.txRunner.RunLead(ctx, func(leads repository.LeadRepository, audit repository.AuditLogRepository) error {
		if err := leads.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		return audit.Create(ctx, &entity.AuditLog{
			ID:         uuid.New().String(),
			ActorID:    actorID,
			Action:     entity.AuditLeadStatusChange,
			EntityType: "lead",
			EntityID:   id,
			Metadata:   map[string]any{"from": string(current.Status), "to": string(status)},
			CreatedAt:  uc.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	current.Status = status
	return toResponse(current), nil
}

// ExistsByEmail lo usa el guard del portal.
func (uc *UseCase) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return uc.repo.ExistsByEmail(ctx, auth.NormalizeEmail(email))
}

func cleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

func toResponse(l *entity.Lead) *dto.LeadResponse {
	out := &dto.LeadResponse{
		ID:               l.ID,
		Email:            l.Email,
		Name:             l.Name,
		Company:          l.Company,
		Phone:            l.Phone,
		Source:           string(l.Source),
		Status:           string(l.Status),
		Answers:          l.Answers,
		MarketingConsent: l.MarketingConsent,
		CreatedAt:        l.CreatedAt,
	}
	if l.EstimateLow.Valid && l.EstimateHigh.Valid {
		out.Estimate = &dto.EstimateResponse{Low: l.EstimateLow.Decimal, High: l.EstimateHigh.Decimal, Currency: Currency}
	}
	return out
}
