package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/pkg/jwt"
)

// Session identidad del que llama, ya autenticada.
type Session struct {
	UserID     string
	Email      string
	CustomerID string
	Role       entity.Role
}

// IsAdmin informa si la sesión es de un operador de la agencia.
func (s *Session) IsAdmin() bool { return s != nil && s.Role == entity.RoleAdmin }

// Owns informa si la sesión puede ver recursos del cliente indicado.
func (s *Session) Owns(customerID string) bool {
	if s == nil {
		return false
	}
	if s.IsAdmin() {
		return true
	}
	return s.CustomerID != "" && s.CustomerID == customerID
}

// SessionResolver resuelve un token de sesión. (nil, nil) = sin sesión.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*Session, error)
}

// JWTSessionResolver resuelve sesiones firmadas con pkg/jwt.
type JWTSessionResolver struct {
	secret string
}

// NewJWTSessionResolver construye el resolver con el secreto HMAC.
func NewJWTSessionResolver(secret string) *JWTSessionResolver {
	return &JWTSessionResolver{secret: secret}
}

// Resolve valida el token. Token vacío devuelve (nil, nil); token inválido o
// con rol desconocido devuelve error y el llamador lo trata como sin sesión.
func (r *JWTSessionResolver) Resolve(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	id, err := jwt.Parse(r.secret, token)
	if err != nil {
		return nil, fmt.Errorf("sesión: %w", err)
	}
	role, err := entity.ParseRole(id.Role)
	if err != nil {
		return nil, fmt.Errorf("sesión: %w", err)
	}
	return &Session{
		UserID:     id.UserID,
		Email:      id.Email,
		CustomerID: id.CustomerID,
		Role:       role,
	}, nil
}
