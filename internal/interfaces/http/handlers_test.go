package http_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/studio-portal/internal/application/access"
	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/billing"
	"github.com/jhoicas/studio-portal/internal/application/contract"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
	apphttp "github.com/jhoicas/studio-portal/internal/interfaces/http"
	"github.com/jhoicas/studio-portal/pkg/logger"
)

// ── fakes mínimos: solo los métodos que recorren estas rutas ─────────────────

type stubContracts struct {
	repository.ContractRepository
	mu   sync.Mutex
	rows map[string]*entity.Contract
}

func (s *stubContracts) GetByID(_ context.Context, id string) (*entity.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *stubContracts) MarkSigned(_ context.Context, id string, from []entity.ContractStatus, sig entity.ContractSignature) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if c.Status == f {
			c.Status = entity.ContractStatusSigned
			c.SignerName = &sig.SignerName
			c.SignedAt = &sig.SignedAt
			c.SignatureRef = &sig.SignatureRef
			return true, nil
		}
	}
	return false, nil
}

type stubAudit struct {
	repository.AuditLogRepository
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (s *stubAudit) Create(_ context.Context, e *entity.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

type stubInvoices struct {
	repository.InvoiceRepository
	mu     sync.Mutex
	status map[string]entity.InvoiceStatus
}

func (s *stubInvoices) MarkPaid(_ context.Context, id, _ string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status[id] != entity.InvoiceStatusOpen {
		return false, nil
	}
	s.status[id] = entity.InvoiceStatusPaid
	return true, nil
}

type stubTx struct {
	contracts *stubContracts
	invoices  *stubInvoices
	audit     *stubAudit
}

func (t *stubTx) RunContract(_ context.Context, fn func(repository.ContractRepository, repository.AuditLogRepository) error) error {
	return fn(t.contracts, t.audit)
}

func (t *stubTx) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository, repository.AuditLogRepository) error) error {
	return fn(t.invoices, t.audit)
}

type stubBlobs struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (b *stubBlobs) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	_, _ = io.Copy(io.Discard, r)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[key] = true
	return nil
}

func (b *stubBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.keys, key)
	return nil
}

func (b *stubBlobs) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://blobs.test/" + key, nil
}

type stubVerifier struct{}

// Verify acepta la cabecera "ok" y decodifica {"id","type","invoice_id"}.
func (stubVerifier) Verify(payload []byte, header string) (*billing.PaymentEvent, error) {
	if header != "ok" {
		return nil, domain.ErrUnauthorized
	}
	var raw struct {
		ID        string `json:"id"`
		Type      string `json:"type"`
		InvoiceID string `json:"invoice_id"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	return &billing.PaymentEvent{ID: raw.ID, Type: raw.Type, InvoiceID: raw.InvoiceID}, nil
}

// ── app completa con el router real ──────────────────────────────────────────

type portalFixture struct {
	app   *fiber.App
	blobs *stubBlobs
	audit *stubAudit
}

func newPortalFixture(t *testing.T) *portalFixture {
	t.Helper()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	contracts := &stubContracts{rows: map[string]*entity.Contract{
		"k-1": {ID: "k-1", CustomerID: "c-1", Title: "Rediseño web", DocumentRef: "contracts/k-1/doc.pdf",
			Status: entity.ContractStatusSent, CreatedAt: now, UpdatedAt: now},
		"k-other": {ID: "k-other", CustomerID: "c-2", Title: "Ajeno", DocumentRef: "https://docs.test/x.pdf",
			Status: entity.ContractStatusSent, CreatedAt: now, UpdatedAt: now},
	}}
	audit := &stubAudit{}
	tx := &stubTx{
		contracts: contracts,
		invoices:  &stubInvoices{status: map[string]entity.InvoiceStatus{"inv-1": entity.InvoiceStatusOpen}},
		audit:     audit,
	}
	blobs := &stubBlobs{keys: map[string]bool{}}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:   auth.NewJWTSessionResolver(testJWTSecret),
		Guard:      access.NewGuard(&fakeLeads{known: map[string]bool{"ana@cliente.com": true}}, nil),
		Cookie:     apphttp.CookieConfig{Name: testCookieName, MaxAge: time.Hour},
		ContractUC: contract.NewLifecycleUseCase(tx, contracts, nil, blobs, nil).WithClock(func() time.Time { return now }),
		PaymentUC:  billing.NewPaymentUseCase(stubVerifier{}, tx, nil),
		Log:        logger.Nop(),
	})
	return &portalFixture{app: app, blobs: blobs, audit: audit}
}

func (f *portalFixture) post(t *testing.T, target string, body any, setup func(*http.Request)) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if setup != nil {
		setup(req)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func pngDataURI() string {
	img := append([]byte("\x89PNG\r\n\x1a\n"), []byte("trazo")...)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}

func TestPortalSign_FullFlow(t *testing.T) {
	f := newPortalFixture(t)
	cookie := withCookie(customerToken(t, "ana@cliente.com"))
	body := map[string]any{"signature": pngDataURI(), "signer_name": "  Ana   María ", "agreed_to_terms": true}

	resp := f.post(t, "/portal/contracts/k-1/sign", body, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, "SIGNED", out["status"])
	assert.Equal(t, "Ana María", out["signer_name"])
	assert.Equal(t, false, out["can_sign"])
	assert.Equal(t, "https://blobs.test/contracts/k-1/doc.pdf", out["document_url"])
	assert.Len(t, f.blobs.keys, 1)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditContractSigned, f.audit.entries[0].Action)

	// segunda firma: conflicto y sin imagen huérfana
	resp = f.post(t, "/portal/contracts/k-1/sign", body, cookie)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeBody(t, resp)["code"])
	assert.Len(t, f.blobs.keys, 1)
}

func TestPortalSign_ValidationField(t *testing.T) {
	f := newPortalFixture(t)
	cookie := withCookie(customerToken(t, "ana@cliente.com"))

	resp := f.post(t, "/portal/contracts/k-1/sign",
		map[string]any{"signature": pngDataURI(), "signer_name": "Ana", "agreed_to_terms": false}, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, "VALIDATION", out["code"])
	assert.Equal(t, "agreed_to_terms", out["field"])
	assert.Empty(t, f.blobs.keys)
}

func TestPortalSign_ForeignContractIsNotFound(t *testing.T) {
	f := newPortalFixture(t)
	resp := f.post(t, "/portal/contracts/k-other/sign",
		map[string]any{"signature": pngDataURI(), "signer_name": "Ana", "agreed_to_terms": true},
		withCookie(customerToken(t, "ana@cliente.com")))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, resp)["code"])
}

func TestPortalSign_WithoutSessionRedirects(t *testing.T) {
	f := newPortalFixture(t)
	resp := f.post(t, "/portal/contracts/k-1/sign", map[string]any{}, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?callbackUrl=/portal/contracts/k-1/sign", resp.Header.Get("Location"))
}

func TestStripeWebhook(t *testing.T) {
	f := newPortalFixture(t)
	event := map[string]any{"id": "evt_1", "type": billing.EventCheckoutCompleted, "invoice_id": "inv-1"}
	signed := func(r *http.Request) { r.Header.Set(apphttp.StripeSignatureHeader, "ok") }

	resp := f.post(t, "/api/webhooks/stripe", event, func(r *http.Request) { r.Header.Set(apphttp.StripeSignatureHeader, "bad") })
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_SIGNATURE", decodeBody(t, resp)["code"])

	resp = f.post(t, "/api/webhooks/stripe", event, signed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["applied"])

	// reintento de la pasarela: se reconoce sin cambios
	resp = f.post(t, "/api/webhooks/stripe", event, signed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, true, out["received"])
	assert.Equal(t, false, out["applied"])
	assert.Len(t, f.audit.entries, 1)
}

func TestPublicPages(t *testing.T) {
	f := newPortalFixture(t)

	resp := doGet(t, f.app, "/health", nil)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])

	resp = doGet(t, f.app, "/login?callbackUrl=/portal", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/portal", decodeBody(t, resp)["callback_url"])

	resp = doGet(t, f.app, "/portal-access-denied", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "portal-access-denied", decodeBody(t, resp)["page"])
}
