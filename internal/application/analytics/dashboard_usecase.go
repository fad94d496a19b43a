// Package analytics contiene los resúmenes de los tableros del operador y del portal.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

// DashboardUseCase genera los resúmenes de GET /admin y GET /portal.
//
// Solo lectura: cuenta sobre los repositorios, nunca escribe.
type DashboardUseCase struct {
	leadRepo     repository.LeadRepository
	contractRepo repository.ContractRepository
	invoiceRepo  repository.InvoiceRepository
	meetingRepo  repository.MeetingRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	leadRepo repository.LeadRepository,
	contractRepo repository.ContractRepository,
	invoiceRepo repository.InvoiceRepository,
	meetingRepo repository.MeetingRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		leadRepo:     leadRepo,
		contractRepo: contractRepo,
		invoiceRepo:  invoiceRepo,
		meetingRepo:  meetingRepo,
		now:          time.Now,
	}
}

type openTotalResult struct {
	total decimal.Decimal
	count int
	err   error
}

// AdminSummary cuenta leads y contratos por estado y suma lo pendiente de cobro.
//
// Tres consultas en paralelo:
//  1. CountByStatus de leads
//  2. CountByStatus de contratos (todos los clientes)
//  3. OpenTotal de facturas
func (uc *DashboardUseCase) AdminSummary(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	type leadsResult struct {
		counts map[entity.LeadStatus]int
		err    error
	}
	type contractsResult struct {
		counts map[entity.ContractStatus]int
		err    error
	}

	leadsCh := make(chan leadsResult, 1)
	contractsCh := make(chan contractsResult, 1)
	openCh := make(chan openTotalResult, 1)

	go func() {
		counts, err := uc.leadRepo.CountByStatus(ctx)
		leadsCh <- leadsResult{counts, err}
	}()
	go func() {
		counts, err := uc.contractRepo.CountByStatus(ctx, "")
		contractsCh <- contractsResult{counts, err}
	}()
	go func() {
		total, n, err := uc.invoiceRepo.OpenTotal(ctx, "")
		openCh <- openTotalResult{total, n, err}
	}()

	leads := <-leadsCh
	contracts := <-contractsCh
	open := <-openCh

	if leads.err != nil {
		return nil, fmt.Errorf("dashboard: leads: %w", leads.err)
	}
	if contracts.err != nil {
		return nil, fmt.Errorf("dashboard: contratos: %w", contracts.err)
	}
	if open.err != nil {
		return nil, fmt.Errorf("dashboard: facturas: %w", open.err)
	}

	out := &dto.AdminDashboardResponse{
		LeadsByStatus:     make(map[string]int, len(leads.counts)),
		ContractsByStatus: make(map[string]int, len(contracts.counts)),
		OpenInvoices:      open.count,
		OpenInvoiceTotal:  open.total.Round(2),
	}
	for k, v := range leads.counts {
		out.LeadsByStatus[string(k)] = v
	}
	for k, v := range contracts.counts {
		out.ContractsByStatus[string(k)] = v
	}
	return out, nil
}

// PortalSummary resumen del cliente de la sesión: contratos por firmar,
// facturas abiertas y próxima reunión.
func (uc *DashboardUseCase) PortalSummary(ctx context.Context, caller *auth.Session) (*dto.PortalDashboardResponse, error) {
	if caller == nil || caller.CustomerID == "" {
		return nil, domain.ErrNotFound
	}
	now := uc.now()

	type contractsResult struct {
		counts map[entity.ContractStatus]int
		err    error
	}
	type meetingsResult struct {
		list []*entity.Meeting
		err  error
	}

	contractsCh := make(chan contractsResult, 1)
	openCh := make(chan openTotalResult, 1)
	meetingsCh := make(chan meetingsResult, 1)

	go func() {
		counts, err := uc.contractRepo.CountByStatus(ctx, caller.CustomerID)
		contractsCh <- contractsResult{counts, err}
	}()
	go func() {
		total, n, err := uc.invoiceRepo.OpenTotal(ctx, caller.CustomerID)
		openCh <- openTotalResult{total, n, err}
	}()
	go func() {
		list, err := uc.meetingRepo.ListByCustomer(ctx, caller.CustomerID, now)
		meetingsCh <- meetingsResult{list, err}
	}()

	contracts := <-contractsCh
	open := <-openCh
	meetings := <-meetingsCh

	if contracts.err != nil {
		return nil, fmt.Errorf("portal: contratos: %w", contracts.err)
	}
	if open.err != nil {
		return nil, fmt.Errorf("portal: facturas: %w", open.err)
	}
	if meetings.err != nil {
		return nil, fmt.Errorf("portal: reuniones: %w", meetings.err)
	}

	out := &dto.PortalDashboardResponse{
		AwaitingSignature: contracts.counts[entity.ContractStatusSent] + contracts.counts[entity.ContractStatusViewed],
		OpenInvoices:      open.count,
		OpenInvoiceTotal:  open.total.Round(2),
	}
	for _, m := range meetings.list {
		if !m.ScheduledAt.Before(now) {
			out.NextMeeting = &dto.MeetingResponse{
				ID:          m.ID,
				CustomerID:  m.CustomerID,
				Title:       m.Title,
				ScheduledAt: m.ScheduledAt,
				DurationMin: m.DurationMin,
				Location:    m.Location,
				Upcoming:    true,
			}
			break
		}
	}
	return out, nil
}
