package entity

import (
	"fmt"
	"time"
)

// Role rol cerrado de un usuario. No existe valor por defecto a nivel de tipo:
// el único punto que decide "CUSTOMER si viene vacío" es el login (ver auth.resolveRole).
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole convierte el valor persistido o firmado en un Role válido.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCustomer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("rol desconocido %q", s)
	}
}

// Estados de cuenta.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa una cuenta que puede iniciar sesión (operador de la agencia o cliente del portal).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // valor crudo de la columna (puede venir vacío en filas antiguas)
	CustomerID   string // vacío para administradores
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
