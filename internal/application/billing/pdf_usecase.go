package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

// PDFUseCase genera el PDF de una factura.
// Solo se permite generar el PDF de facturas emitidas (no DRAFT).
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF recupera la factura con sus líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe o no es del llamador.
//   - domain.ErrInvalidInput     si la factura está en DRAFT.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	caller *auth.Session,
	invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	inv, err := fetchVisible(ctx, uc.invoiceRepo, caller, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv.Status == entity.InvoiceStatusDraft {
		return nil, "", fmt.Errorf("%w: la factura está en estado %s, emítala antes de descargar el PDF",
			domain.ErrInvalidInput, inv.Status)
	}

	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	items, err := uc.invoiceRepo.GetItems(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, customer, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("factura_%s.pdf", inv.Number)
	return pdfBytes, filename, nil
}
