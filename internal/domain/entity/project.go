package entity

import "time"

// Estados de proyecto.
const (
	ProjectStatusPlanning   = "PLANNING"
	ProjectStatusInProgress = "IN_PROGRESS"
	ProjectStatusReview     = "REVIEW"
	ProjectStatusDone       = "DONE"
)

// Project trabajo en curso para un cliente.
type Project struct {
	ID          string
	CustomerID  string
	Name        string
	Description string
	Status      string
	StartedAt   *time.Time
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
