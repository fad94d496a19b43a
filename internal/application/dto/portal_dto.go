package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProjectRequest body para POST /admin/projects.
type CreateProjectRequest struct {
	CustomerID  string `json:"customer_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	StartedAt   string `json:"started_at,omitempty"` // YYYY-MM-DD
	DueAt       string `json:"due_at,omitempty"`     // YYYY-MM-DD
}

// ProjectResponse proyecto en respuestas.
type ProjectResponse struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customer_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// CreateMeetingRequest body para POST /admin/meetings.
type CreateMeetingRequest struct {
	CustomerID  string    `json:"customer_id"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	DurationMin int       `json:"duration_min"`
	Location    string    `json:"location,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// MeetingResponse reunión en respuestas.
type MeetingResponse struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	DurationMin int       `json:"duration_min"`
	Location    string    `json:"location,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Upcoming    bool      `json:"upcoming"`
}

// AuditLogResponse entrada de bitácora.
type AuditLogResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AdminDashboardResponse resumen de GET /admin.
type AdminDashboardResponse struct {
	LeadsByStatus     map[string]int  `json:"leads_by_status"`
	ContractsByStatus map[string]int  `json:"contracts_by_status"`
	OpenInvoices      int             `json:"open_invoices"`
	OpenInvoiceTotal  decimal.Decimal `json:"open_invoice_total"`
}

// PortalDashboardResponse resumen de GET /portal.
type PortalDashboardResponse struct {
	AwaitingSignature int              `json:"awaiting_signature"`
	OpenInvoices      int              `json:"open_invoices"`
	OpenInvoiceTotal  decimal.Decimal  `json:"open_invoice_total"`
	NextMeeting       *MeetingResponse `json:"next_meeting,omitempty"`
}
