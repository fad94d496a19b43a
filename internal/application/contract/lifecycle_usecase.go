package contract

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
	lifecycle "github.com/jhoicas/studio-portal/internal/domain/contract"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
	"github.com/jhoicas/studio-portal/pkg/logger"
)

const entityType = "contract"

// LifecycleUseCase casos de uso del ciclo de vida de contratos: alta, envío,
// lectura, marca de visto, firma y expiración. Toda escritura de estado pasa por aquí.
type LifecycleUseCase struct {
	txRunner     TxRunner
	contracts    repository.ContractRepository
	customerRepo repository.CustomerRepository
	blobs        BlobStore
	log          *logger.Logger
	now          func() time.Time
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner TxRunner,
	contracts repository.ContractRepository,
	customerRepo repository.CustomerRepository,
	blobs BlobStore,
	log *logger.Logger,
) *LifecycleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LifecycleUseCase{
		txRunner:     txRunner,
		contracts:    contracts,
		customerRepo: customerRepo,
		blobs:        blobs,
		log:          log.Component("contracts"),
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LifecycleUseCase) WithClock(now func() time.Time) *LifecycleUseCase {
	uc.now = now
	return uc
}

// Create crea un contrato en DRAFT. Si doc no es nil se sube al object store;
// si la transacción falla el documento subido se elimina.
func (uc *LifecycleUseCase) Create(ctx context.Context, actor *auth.Session, in dto.CreateContractRequest, doc *Upload) (*dto.ContractResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title es requerido")
	}
	if in.CustomerID == "" {
		return nil, domain.NewValidationError("customer_id", "customer_id es requerido")
	}
	if doc == nil && strings.TrimSpace(in.DocumentURL) == "" {
		return nil, domain.NewValidationError("document", "se requiere un documento o document_url")
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	c := &entity.Contract{
		ID:          uuid.New().String(),
		CustomerID:  customer.ID,
		Title:       title,
		DocumentRef: strings.TrimSpace(in.DocumentURL),
		Status:      entity.ContractStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	uploaded := ""
	if doc != nil {
		key := fmt.Sprintf("contracts/%s/%s%s", c.ID, uuid.New().String(), path.Ext(doc.Filename))
		contentType := doc.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}
		if err := uc.blobs.Put(ctx, key, doc.Body, doc.Size, contentType); err != nil {
			return nil, fmt.Errorf("subir documento: %w", err)
		}
		c.DocumentRef = key
		uploaded = key
	}

	err = uc.txRunner.RunContract(ctx, func(contracts repository.ContractRepository, audit repository.AuditLogRepository) error {
		if err := contracts.Create(ctx, c); err != nil {
			return err
		}
		return audit.Create(ctx, uc.auditEntry(actor, entity.AuditContractCreated, c.ID, map[string]any{
			"customer_id": c.CustomerID,
			"title":       c.Title,
		}))
	})
	if err != nil {
		if uploaded != "" {
			uc.discardBlob(ctx, uploaded)
		}
		return nil, err
	}
	return uc.toResponse(ctx, c, actor), nil
}

// Get devuelve el contrato si el llamador es su dueño o administrador.
// En cualquier otro caso responde ErrNotFound, exista o no.
func (uc *LifecycleUseCase) Get(ctx context.Context, caller *auth.Session, id string) (*dto.ContractResponse, error) {
	c, err := uc.fetchOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, c, caller), nil
}

// ListForCaller contratos del cliente de la sesión.
func (uc *LifecycleUseCase) ListForCaller(ctx context.Context, caller *auth.Session, page dto.PageRequest) ([]*dto.ContractResponse, error) {
	if caller == nil || caller.CustomerID == "" {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	list, err := uc.contracts.ListByCustomer(ctx, caller.CustomerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ContractResponse, 0, len(list))
	for _, c := range list {
		out = append(out, uc.toResponse(ctx, c, caller))
	}
	return out, nil
}

// List listado administrativo con filtro opcional por estado.
func (uc *LifecycleUseCase) List(ctx context.Context, actor *auth.Session, status string, page dto.PageRequest) ([]*dto.ContractResponse, error) {
	var filter entity.ContractStatus
	if status != "" {
		s, ok := entity.ParseContractStatus(strings.ToUpper(status))
		if !ok {
			return nil, domain.NewValidationError("status", "estado desconocido")
		}
		filter = s
	}
	page.DefaultPage()
	list, err := uc.contracts.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ContractResponse, 0, len(list))
	for _, c := range list {
		out = append(out, uc.toResponse(ctx, c, actor))
	}
	return out, nil
}

// Send DRAFT -> SENT.
func (uc *LifecycleUseCase) Send(ctx context.Context, actor *auth.Session, id string) (*dto.ContractResponse, error) {
	return uc.apply(ctx, actor, id, lifecycle.EventDispatch, entity.AuditContractSent)
}

// Expire {SENT, VIEWED} -> EXPIRED (acción del operador).
func (uc *LifecycleUseCase) Expire(ctx context.Context, actor *auth.Session, id string) (*dto.ContractResponse, error) {
	return uc.apply(ctx, actor, id, lifecycle.EventExpire, entity.AuditContractExpired)
}

// MarkViewed SENT -> VIEWED. Es un no-op sin error en cualquier otro estado y
// cuando quien mira es un administrador: solo la primera vista del cliente cuenta.
func (uc *LifecycleUseCase) MarkViewed(ctx context.Context, caller *auth.Session, id string) (*dto.ContractResponse, error) {
	c, err := uc.fetchOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin() || !lifecycle.CanApply(c.Status, lifecycle.EventView) {
		return uc.toResponse(ctx, c, caller), nil
	}

	now := uc.now()
	err = uc.txRunner.RunContract(ctx, func(contracts repository.ContractRepository, audit repository.AuditLogRepository) error {
		ok, err := contracts.UpdateStatus(ctx, id, lifecycle.Sources(lifecycle.EventView), lifecycle.Target(lifecycle.EventView), now)
		if err != nil {
			return err
		}
		if !ok {
			// Otro request ya lo avanzó; no es un error.
			return nil
		}
		return audit.Create(ctx, uc.auditEntry(caller, entity.AuditContractViewed, id, nil))
	})
	if err != nil {
		return nil, err
	}
	return uc.reload(ctx, caller, id)
}

// Sign firma el contrato. Orden: validación de entrada, propiedad, estado,
// subida de la imagen y compare-and-set del estado junto con la bitácora en una
// transacción. Si el compare-and-set no aplica (firma concurrente, expiración)
// devuelve ErrConflict. Cualquier fallo posterior a la subida elimina la imagen.
func (uc *LifecycleUseCase) Sign(ctx context.Context, caller *auth.Session, id string, in dto.SignContractRequest) (*dto.ContractResponse, error) {
	input, err := validateSignInput(in)
	if err != nil {
		return nil, err
	}
	c, err := uc.fetchOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanApply(c.Status, lifecycle.EventSign) {
		return nil, fmt.Errorf("contrato en estado %s: %w", c.Status, domain.ErrConflict)
	}

	key := fmt.Sprintf("signatures/%s/%s.png", id, uuid.New().String())
	if err := uc.blobs.Put(ctx, key, bytes.NewReader(input.image), int64(len(input.image)), "image/png"); err != nil {
		return nil, fmt.Errorf("guardar firma: %w", err)
	}

	sig := entity.ContractSignature{
		SignerName:   input.signerName,
		SignedAt:     uc.now().UTC(),
		SignatureRef: key,
	}
	err = uc.txRunner.RunContract(ctx, func(contracts repository.ContractRepository, audit repository.AuditLogRepository) error {
		ok, err := contracts.MarkSigned(ctx, id, lifecycle.Sources(lifecycle.EventSign), sig)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("el contrato cambió de estado antes de firmar: %w", domain.ErrConflict)
		}
		return audit.Create(ctx, uc.auditEntry(caller, entity.AuditContractSigned, id, map[string]any{
			"signer_name":   sig.SignerName,
			"signature_ref": key,
		}))
	})
	if err != nil {
		uc.discardBlob(ctx, key)
		return nil, err
	}
	uc.log.Info().Str("contract_id", id).Str("user_id", caller.UserID).Msg("contrato firmado")
	return uc.reload(ctx, caller, id)
}

func (uc *LifecycleUseCase) apply(ctx context.Context, actor *auth.Session, id string, ev lifecycle.Event, action string) (*dto.ContractResponse, error) {
	c, err := uc.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	to, err := lifecycle.Next(c.Status, ev)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	err = uc.txRunner.RunContract(ctx, func(contracts repository.ContractRepository, audit repository.AuditLogRepository) error {
		ok, err := contracts.UpdateStatus(ctx, id, lifecycle.Sources(ev), to, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("el contrato cambió de estado: %w", domain.ErrConflict)
		}
		return audit.Create(ctx, uc.auditEntry(actor, action, id, map[string]any{
			"from": string(c.Status),
			"to":   string(to),
		}))
	})
	if err != nil {
		return nil, err
	}
	return uc.reload(ctx, actor, id)
}

func (uc *LifecycleUseCase) fetchOwned(ctx context.Context, caller *auth.Session, id string) (*entity.Contract, error) {
	if caller == nil || id == "" {
		return nil, domain.ErrNotFound
	}
	c, err := uc.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !caller.Owns(c.CustomerID) {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *LifecycleUseCase) reload(ctx context.Context, caller *auth.Session, id string) (*dto.ContractResponse, error) {
	c, err := uc.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, c, caller), nil
}

// discardBlob compensa una subida cuando la escritura en DB no se confirmó.
func (uc *LifecycleUseCase) discardBlob(ctx context.Context, key string) {
	if err := uc.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		uc.log.Error().Err(err).Str("key", key).Msg("no se pudo eliminar el objeto huérfano")
	}
}

func (uc *LifecycleUseCase) auditEntry(actor *auth.Session, action, id string, meta map[string]any) *entity.AuditLog {
	actorID := ""
	if actor != nil {
		actorID = actor.UserID
	}
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   id,
		Metadata:   meta,
		CreatedAt:  uc.now(),
	}
}

func (uc *LifecycleUseCase) toResponse(ctx context.Context, c *entity.Contract, caller *auth.Session) *dto.ContractResponse {
	out := &dto.ContractResponse{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		Title:      c.Title,
		Status:     string(c.Status),
		SignerName: c.SignerName,
		SignedAt:   c.SignedAt,
		SentAt:     c.SentAt,
		ViewedAt:   c.ViewedAt,
		CanSign:    lifecycle.CanApply(c.Status, lifecycle.EventSign),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	switch {
	case c.DocumentRef == "":
	case strings.HasPrefix(c.DocumentRef, "http://"), strings.HasPrefix(c.DocumentRef, "https://"):
		out.DocumentURL = c.DocumentRef
	default:
		u, err := uc.blobs.PresignedURL(ctx, c.DocumentRef)
		if err != nil {
			uc.log.Warn().Err(err).Str("contract_id", c.ID).Msg("no se pudo prefirmar el documento")
			break
		}
		out.DocumentURL = u
	}
	return out
}
