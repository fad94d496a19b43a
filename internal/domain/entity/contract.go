package entity

import "time"

// ContractStatus estado del ciclo de vida de un contrato.
// Las transiciones válidas viven en internal/domain/contract.
type ContractStatus string

const (
	ContractStatusDraft   ContractStatus = "DRAFT"
	ContractStatusSent    ContractStatus = "SENT"
	ContractStatusViewed  ContractStatus = "VIEWED"
	ContractStatusSigned  ContractStatus = "SIGNED"
	ContractStatusExpired ContractStatus = "EXPIRED"
)

// ParseContractStatus valida un estado recibido como texto.
func ParseContractStatus(s string) (ContractStatus, bool) {
	switch ContractStatus(s) {
	case ContractStatusDraft, ContractStatusSent, ContractStatusViewed, ContractStatusSigned, ContractStatusExpired:
		return ContractStatus(s), true
	}
	return "", false
}

// Contract contrato de un cliente.
// SignerName, SignedAt y SignatureRef tienen valor si y solo si Status es SIGNED.
type Contract struct {
	ID           string
	CustomerID   string
	Title        string
	DocumentRef  string // clave en el object store o URL externa
	Status       ContractStatus
	SignerName   *string
	SignedAt     *time.Time
	SignatureRef *string
	SentAt       *time.Time
	ViewedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContractSignature datos que se escriben al firmar.
type ContractSignature struct {
	SignerName   string
	SignedAt     time.Time
	SignatureRef string
}
