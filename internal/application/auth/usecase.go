package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
	"github.com/jhoicas/studio-portal/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de cuentas y login.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, customerRepo repository.CustomerRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, customerRepo: customerRepo, jwtCfg: jwtCfg}
}

// NormalizeEmail forma canónica de un email (la misma que usa la tabla de leads).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser crea una cuenta: hashea password con bcrypt y persiste.
// Un CUSTOMER debe apuntar a un cliente existente.
func (uc *AuthUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "email inválido")
	}
	if len(in.Password) < 8 {
		return nil, domain.NewValidationError("password", "password debe tener al menos 8 caracteres")
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, domain.NewValidationError("role", "role debe ser ADMIN o CUSTOMER")
	}
	customerID := ""
	if role == entity.RoleCustomer {
		if in.CustomerID == "" {
			return nil, domain.NewValidationError("customer_id", "customer_id es requerido para CUSTOMER")
		}
		customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		customerID = customer.ID
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         string(role),
		CustomerID:   customerID,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user, role), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	role, err := resolveRole(user.Role)
	if err != nil {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:     user.ID,
		Email:      user.Email,
		CustomerID: user.CustomerID,
		Role:       string(role),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user, role)}, nil
}

// resolveRole es el único punto donde un rol no persistido se considera CUSTOMER:
// las cuentas creadas antes de existir la columna role son todas de clientes.
// Un valor presente pero desconocido no se degrada: es un error.
func resolveRole(stored string) (entity.Role, error) {
	if stored == "" {
		return entity.RoleCustomer, nil
	}
	return entity.ParseRole(stored)
}

func toUserResponse(u *entity.User, role entity.Role) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(role),
		CustomerID: u.CustomerID,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
	}
}
