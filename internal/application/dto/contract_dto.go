package dto

import "time"

// CreateContractRequest campos del formulario multipart de POST /admin/contracts.
// El documento puede llegar como archivo (se sube al object store) o como URL externa.
type CreateContractRequest struct {
	Title       string `form:"title" json:"title"`
	CustomerID  string `form:"customer_id" json:"customer_id"`
	DocumentURL string `form:"document_url" json:"document_url,omitempty"`
}

// SignContractRequest body para POST /portal/contracts/:id/sign.
// Signature es un data-URI PNG (data:image/png;base64,...).
type SignContractRequest struct {
	Signature     string `json:"signature"`
	SignerName    string `json:"signer_name"`
	AgreedToTerms bool   `json:"agreed_to_terms"`
}

// ContractResponse contrato en respuestas.
// DocumentURL es una URL prefirmada cuando el documento vive en el object store.
type ContractResponse struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customer_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	DocumentURL string     `json:"document_url,omitempty"`
	SignerName  *string    `json:"signer_name"`
	SignedAt    *time.Time `json:"signed_at"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	ViewedAt    *time.Time `json:"viewed_at,omitempty"`
	CanSign     bool       `json:"can_sign"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
