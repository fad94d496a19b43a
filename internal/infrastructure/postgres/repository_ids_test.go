package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

// countingQuerier falla si algún repositorio llega a la base de datos.
type countingQuerier struct {
	calls int
	err   error
}

func (q *countingQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	q.calls++
	return pgconn.CommandTag{}, q.err
}

func (q *countingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	q.calls++
	return nil, q.err
}

func (q *countingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	q.calls++
	return errRow{err: q.err}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestValidID(t *testing.T) {
	assert.True(t, validID("6f1c3a52-8d0e-4c47-9b8e-2f7a1d9c0b11"))
	for _, id := range []string{"", "42", "abc", "6f1c3a528d0e4c479b8e2f7a1d9c0b11", "urn:uuid:6f1c3a52-8d0e-4c47-9b8e-2f7a1d9c0b11", "6f1c3a52-8d0e-4c47-9b8e-2f7a1d9c0b1z"} {
		assert.False(t, validID(id), id)
	}
}

func TestRepos_IDMalFormadoEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	q := &countingQuerier{err: errors.New("no debería consultarse")}
	now := time.Now()

	c, err := NewContractRepository(q).GetByID(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, c)

	ok, err := NewContractRepository(q).MarkSigned(ctx, "42", []entity.ContractStatus{entity.ContractStatusSent}, entity.ContractSignature{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewContractRepository(q).UpdateStatus(ctx, "42", []entity.ContractStatus{entity.ContractStatusDraft}, entity.ContractStatusSent, now)
	require.NoError(t, err)
	assert.False(t, ok)

	inv, err := NewInvoiceRepository(q).GetByID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, inv)

	ok, err = NewInvoiceRepository(q).MarkPaid(ctx, "inv_123", "pi_1", now)
	require.NoError(t, err)
	assert.False(t, ok, "un invoice_id inválido en el webhook se reconoce sin aplicar")

	cust, err := NewCustomerRepository(q).GetByID(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, cust)

	u, err := NewUserRepository(q).GetByID(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, u)

	l, err := NewLeadRepository(q).GetByID(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.ErrorIs(t, NewLeadRepository(q).UpdateStatus(ctx, "7", entity.LeadStatusContacted), domain.ErrNotFound)

	list, err := NewContractRepository(q).ListByCustomer(ctx, "c-1", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Zero(t, q.calls)
}

func TestRepos_IDValidoSiConsulta(t *testing.T) {
	q := &countingQuerier{err: pgx.ErrNoRows}
	c, err := NewContractRepository(q).GetByID(context.Background(), "6f1c3a52-8d0e-4c47-9b8e-2f7a1d9c0b11")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 1, q.calls)
}

func TestCreate_FKMalFormadaEsNoEncontrado(t *testing.T) {
	q := &countingQuerier{err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "22P02"})}
	err := NewContractRepository(q).Create(context.Background(), &entity.Contract{ID: "x", CustomerID: "42"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
