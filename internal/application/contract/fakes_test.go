package contract_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

// memContracts repositorio en memoria con compare-and-set bajo mutex,
// equivalente al UPDATE ... WHERE status = ANY($2) de postgres.
type memContracts struct {
	mu   sync.Mutex
	rows map[string]entity.Contract
}

func newMemContracts(cs ...entity.Contract) *memContracts {
	m := &memContracts{rows: map[string]entity.Contract{}}
	for _, c := range cs {
		m.rows[c.ID] = c
	}
	return m
}

func (m *memContracts) Create(_ context.Context, c *entity.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = *c
	return nil
}

func (m *memContracts) GetByID(_ context.Context, id string) (*entity.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memContracts) ListByCustomer(_ context.Context, customerID string, _, _ int) ([]*entity.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Contract
	for _, c := range m.rows {
		if c.CustomerID == customerID {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memContracts) List(_ context.Context, status entity.ContractStatus, _, _ int) ([]*entity.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Contract
	for _, c := range m.rows {
		if status == "" || c.Status == status {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memContracts) CountByStatus(_ context.Context, customerID string) (map[entity.ContractStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[entity.ContractStatus]int{}
	for _, c := range m.rows {
		if customerID == "" || c.CustomerID == customerID {
			out[c.Status]++
		}
	}
	return out, nil
}

func (m *memContracts) UpdateStatus(_ context.Context, id string, from []entity.ContractStatus, to entity.ContractStatus, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || !slices.Contains(from, c.Status) {
		return false, nil
	}
	c.Status = to
	c.UpdatedAt = at
	switch to {
	case entity.ContractStatusSent:
		c.SentAt = &at
	case entity.ContractStatusViewed:
		c.ViewedAt = &at
	}
	m.rows[id] = c
	return true, nil
}

func (m *memContracts) MarkSigned(_ context.Context, id string, from []entity.ContractStatus, sig entity.ContractSignature) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || !slices.Contains(from, c.Status) {
		return false, nil
	}
	name, ref, at := sig.SignerName, sig.SignatureRef, sig.SignedAt
	c.Status = entity.ContractStatusSigned
	c.SignerName = &name
	c.SignatureRef = &ref
	c.SignedAt = &at
	c.UpdatedAt = at
	m.rows[id] = c
	return true, nil
}

func (m *memContracts) snapshot() map[string]entity.Contract {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.rows)
}

func (m *memContracts) restore(rows map[string]entity.Contract) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = rows
}

type memAudit struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
	failOn  string
}

func (a *memAudit) Create(_ context.Context, e *entity.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failOn != "" && e.Action == a.failOn {
		return errors.New("audit: fallo simulado")
	}
	a.entries = append(a.entries, e)
	return nil
}

func (a *memAudit) List(_ context.Context, _ string, _, _ int) ([]*entity.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries, nil
}

func (a *memAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

// memTx emula rollback restaurando la foto previa de los contratos.
// Serializa las transacciones como lo haría el lock de fila.
type memTx struct {
	mu        sync.Mutex
	contracts *memContracts
	audit     *memAudit
}

func (t *memTx) RunContract(ctx context.Context, fn func(repository.ContractRepository, repository.AuditLogRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := t.contracts.snapshot()
	if err := fn(t.contracts, t.audit); err != nil {
		t.contracts.restore(before)
		return err
	}
	return nil
}

type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
	// gate, si no es nil, retiene cada Put hasta que todos los llamadores llegan.
	gate *sync.WaitGroup
}

func newMemBlobs() *memBlobs { return &memBlobs{objects: map[string][]byte{}} }

func (b *memBlobs) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if b.gate != nil {
		b.gate.Done()
		b.gate.Wait()
	}
	if b.putErr != nil {
		return b.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *memBlobs) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://storage.test/" + key, nil
}

func (b *memBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

type memCustomers struct {
	byID map[string]*entity.Customer
}

func (f *memCustomers) Create(_ context.Context, c *entity.Customer) error { f.byID[c.ID] = c; return nil }
func (f *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return f.byID[id], nil
}
func (f *memCustomers) GetByEmail(_ context.Context, _ string) (*entity.Customer, error) {
	return nil, nil
}
func (f *memCustomers) List(_ context.Context, _, _ int) ([]*entity.Customer, error) { return nil, nil }

func validSignature() string {
	img := append([]byte("\x89PNG\r\n\x1a\n"), []byte("trazo-de-firma")...)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}
