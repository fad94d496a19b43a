package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstimateRequest respuestas del estimador de costos.
type EstimateRequest struct {
	ProjectType string   `json:"project_type"`
	Pages       int      `json:"pages"`
	Features    []string `json:"features"`
	Rush        bool     `json:"rush"`
}

// EstimateResponse rango estimado.
type EstimateResponse struct {
	Low      decimal.Decimal `json:"low"`
	High     decimal.Decimal `json:"high"`
	Currency string          `json:"currency"`
}

// CaptureLeadRequest body para POST /api/leads (encuesta, estimador o starter kit).
type CaptureLeadRequest struct {
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	Company          string           `json:"company,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	Source           string           `json:"source"`
	Answers          map[string]any   `json:"answers,omitempty"`
	Estimate         *EstimateRequest `json:"estimate,omitempty"`
	MarketingConsent bool             `json:"marketing_consent"`
}

// UpdateLeadStatusRequest body para PATCH /admin/leads/:id.
type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// LeadResponse lead en respuestas.
type LeadResponse struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	Name             string            `json:"name"`
	Company          string            `json:"company,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	Source           string            `json:"source"`
	Status           string            `json:"status"`
	Answers          map[string]any    `json:"answers,omitempty"`
	Estimate         *EstimateResponse `json:"estimate,omitempty"`
	MarketingConsent bool              `json:"marketing_consent"`
	CreatedAt        time.Time         `json:"created_at"`
}
