package entity

import "time"

// Customer cliente de la agencia; dueño de contratos, facturas, proyectos y reuniones.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Company   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
