package entity

import "time"

// Meeting reunión agendada con un cliente.
type Meeting struct {
	ID          string
	CustomerID  string
	Title       string
	ScheduledAt time.Time
	DurationMin int
	Location    string // sala o enlace de videollamada
	Notes       string
	CreatedAt   time.Time
}
