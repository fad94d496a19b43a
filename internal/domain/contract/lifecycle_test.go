package contract_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/contract"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

var allStatuses = []entity.ContractStatus{
	entity.ContractStatusDraft,
	entity.ContractStatusSent,
	entity.ContractStatusViewed,
	entity.ContractStatusSigned,
	entity.ContractStatusExpired,
}

var allEvents = []contract.Event{
	contract.EventDispatch, contract.EventView, contract.EventSign, contract.EventExpire,
}

func TestNext_TransicionesValidas(t *testing.T) {
	cases := []struct {
		from entity.ContractStatus
		ev   contract.Event
		to   entity.ContractStatus
	}{
		{entity.ContractStatusDraft, contract.EventDispatch, entity.ContractStatusSent},
		{entity.ContractStatusSent, contract.EventView, entity.ContractStatusViewed},
		{entity.ContractStatusSent, contract.EventSign, entity.ContractStatusSigned},
		{entity.ContractStatusViewed, contract.EventSign, entity.ContractStatusSigned},
		{entity.ContractStatusSent, contract.EventExpire, entity.ContractStatusExpired},
		{entity.ContractStatusViewed, contract.EventExpire, entity.ContractStatusExpired},
	}
	for _, tc := range cases {
		to, err := contract.Next(tc.from, tc.ev)
		require.NoError(t, err, "%s --%s-->", tc.from, tc.ev)
		assert.Equal(t, tc.to, to)
	}
}

func TestNext_EstadosTerminalesNoSalen(t *testing.T) {
	for _, s := range []entity.ContractStatus{entity.ContractStatusSigned, entity.ContractStatusExpired} {
		assert.True(t, contract.IsTerminal(s))
		for _, ev := range allEvents {
			_, err := contract.Next(s, ev)
			assert.True(t, errors.Is(err, domain.ErrConflict), "%s no debe aceptar %s", s, ev)
		}
	}
}

func TestNext_NoHayRegresiones(t *testing.T) {
	_, err := contract.Next(entity.ContractStatusViewed, contract.EventView)
	assert.ErrorIs(t, err, domain.ErrConflict, "VIEWED no vuelve a VIEWED por la tabla; el caso de uso lo trata como no-op")

	_, err = contract.Next(entity.ContractStatusDraft, contract.EventSign)
	assert.ErrorIs(t, err, domain.ErrConflict, "un borrador no se firma")
}

func TestNext_EstadoDesconocido(t *testing.T) {
	_, err := contract.Next("ARCHIVED", contract.EventSign)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSources(t *testing.T) {
	assert.Equal(t,
		[]entity.ContractStatus{entity.ContractStatusSent, entity.ContractStatusViewed},
		contract.Sources(contract.EventSign))
	assert.Equal(t,
		[]entity.ContractStatus{entity.ContractStatusDraft},
		contract.Sources(contract.EventDispatch))
	assert.Equal(t, entity.ContractStatusSigned, contract.Target(contract.EventSign))
}

func TestIsTerminal_SoloSignedYExpired(t *testing.T) {
	for _, s := range allStatuses {
		want := s == entity.ContractStatusSigned || s == entity.ContractStatusExpired
		assert.Equal(t, want, contract.IsTerminal(s), string(s))
	}
}
