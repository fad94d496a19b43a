package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

const testSecret = "test-secret-key-for-unit-tests"

type fakeUsers struct {
	byEmail map[string]*entity.User
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.byEmail[u.Email] = u
	return nil
}
func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

type fakeCustomers struct {
	byID map[string]*entity.Customer
}

func (f *fakeCustomers) Create(_ context.Context, c *entity.Customer) error { f.byID[c.ID] = c; return nil }
func (f *fakeCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return f.byID[id], nil
}
func (f *fakeCustomers) GetByEmail(_ context.Context, _ string) (*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomers) List(_ context.Context, _, _ int) ([]*entity.Customer, error) { return nil, nil }

func newUC(t *testing.T, users ...*entity.User) *auth.AuthUseCase {
	t.Helper()
	fu := &fakeUsers{byEmail: map[string]*entity.User{}}
	for _, u := range users {
		fu.byEmail[u.Email] = u
	}
	fc := &fakeCustomers{byID: map[string]*entity.Customer{"cust-1": {ID: "cust-1", Name: "Acme"}}}
	return auth.NewAuthUseCase(fu, fc, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"})
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_RolVacioSeResuelveComoCustomer(t *testing.T) {
	uc := newUC(t, &entity.User{
		ID: "u1", Email: "ana@acme.com", PasswordHash: hashed(t, "secreto123"),
		Role: "", CustomerID: "cust-1", Status: entity.UserStatusActive,
	})

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " Ana@Acme.com ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "CUSTOMER", out.User.Role)

	s, err := auth.NewJWTSessionResolver(testSecret).Resolve(context.Background(), out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, s.Role)
	assert.Equal(t, "ana@acme.com", s.Email)
	assert.Equal(t, "cust-1", s.CustomerID)
}

func TestLogin_RolDesconocidoNoSeDegrada(t *testing.T) {
	uc := newUC(t, &entity.User{
		ID: "u1", Email: "x@acme.com", PasswordHash: hashed(t, "secreto123"),
		Role: "SUPERUSER", Status: entity.UserStatusActive,
	})
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "x@acme.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUC(t, &entity.User{
		ID: "u1", Email: "ana@acme.com", PasswordHash: hashed(t, "secreto123"), Status: entity.UserStatusActive,
	})
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@acme.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_CuentaSuspendida(t *testing.T) {
	uc := newUC(t, &entity.User{
		ID: "u1", Email: "ana@acme.com", PasswordHash: hashed(t, "secreto123"), Status: entity.UserStatusSuspended,
	})
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateUser_CustomerRequiereCliente(t *testing.T) {
	uc := newUC(t)

	_, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "ana@acme.com", Password: "secreto123", Role: "CUSTOMER",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "customer_id", ve.Field)

	_, err = uc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "ana@acme.com", Password: "secreto123", Role: "CUSTOMER", CustomerID: "no-existe",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "Ana@Acme.com", Password: "secreto123", Role: "CUSTOMER", CustomerID: "cust-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.com", out.Email)
	assert.Equal(t, "cust-1", out.CustomerID)

	_, err = uc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "ana@acme.com", Password: "secreto123", Role: "ADMIN",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreateUser_RolSinDefault(t *testing.T) {
	uc := newUC(t)
	_, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Email: "a@b.com", Password: "secreto123"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Field)
}

func TestResolve_TokenVacioEsSinSesion(t *testing.T) {
	s, err := auth.NewJWTSessionResolver(testSecret).Resolve(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestSession_Owns(t *testing.T) {
	admin := &auth.Session{Role: entity.RoleAdmin}
	cust := &auth.Session{Role: entity.RoleCustomer, CustomerID: "c1"}
	orphan := &auth.Session{Role: entity.RoleCustomer}

	assert.True(t, admin.Owns("c9"))
	assert.True(t, cust.Owns("c1"))
	assert.False(t, cust.Owns("c2"))
	assert.False(t, orphan.Owns(""))
	var none *auth.Session
	assert.False(t, none.Owns("c1"))
}
