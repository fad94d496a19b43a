// Package contract contiene la máquina de estados del ciclo de vida de un contrato.
// Es la única tabla de transiciones: casos de uso y repositorios la consultan
// en lugar de comparar estados a mano.
//
//	DRAFT  --dispatch--> SENT  --view--> VIEWED
//	SENT   --sign-----> SIGNED          VIEWED --sign-----> SIGNED
//	SENT   --expire---> EXPIRED         VIEWED --expire---> EXPIRED
//	SIGNED, EXPIRED: terminales.
package contract

import (
	"fmt"
	"sort"

	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

// Event disparador de una transición.
type Event string

const (
	EventDispatch Event = "dispatch"
	EventView     Event = "view"
	EventSign     Event = "sign"
	EventExpire   Event = "expire"
)

var transitions = map[entity.ContractStatus]map[Event]entity.ContractStatus{
	entity.ContractStatusDraft: {
		EventDispatch: entity.ContractStatusSent,
	},
	entity.ContractStatusSent: {
		EventView:   entity.ContractStatusViewed,
		EventSign:   entity.ContractStatusSigned,
		EventExpire: entity.ContractStatusExpired,
	},
	entity.ContractStatusViewed: {
		EventSign:   entity.ContractStatusSigned,
		EventExpire: entity.ContractStatusExpired,
	},
	entity.ContractStatusSigned:  {},
	entity.ContractStatusExpired: {},
}

// Next devuelve el estado destino de aplicar ev sobre from.
// Una transición no definida es un domain.ErrConflict.
func Next(from entity.ContractStatus, ev Event) (entity.ContractStatus, error) {
	out, known := transitions[from]
	if !known {
		return "", fmt.Errorf("estado %q desconocido: %w", from, domain.ErrInvalidInput)
	}
	to, ok := out[ev]
	if !ok {
		return "", fmt.Errorf("transición %s no permitida desde %s: %w", ev, from, domain.ErrConflict)
	}
	return to, nil
}

// CanApply informa si ev es válido desde from.
func CanApply(from entity.ContractStatus, ev Event) bool {
	_, err := Next(from, ev)
	return err == nil
}

// IsTerminal indica si el estado no tiene transiciones de salida.
func IsTerminal(s entity.ContractStatus) bool {
	out, ok := transitions[s]
	return ok && len(out) == 0
}

// Sources lista los estados desde los que ev es válido, en orden estable.
// Es el conjunto que usa el compare-and-set del repositorio.
func Sources(ev Event) []entity.ContractStatus {
	var out []entity.ContractStatus
	for from, evs := range transitions {
		if _, ok := evs[ev]; ok {
			out = append(out, from)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Target estado destino de ev (idéntico desde cualquier origen válido).
func Target(ev Event) entity.ContractStatus {
	for _, evs := range transitions {
		if to, ok := evs[ev]; ok {
			return to
		}
	}
	return ""
}
