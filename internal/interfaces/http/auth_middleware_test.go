package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	apphttp "github.com/jhoicas/studio-portal/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/studio-portal/pkg/jwt"
)

func buildRoleApp(roles ...entity.Role) *fiber.App {
	app := fiber.New()
	app.Use(apphttp.SessionMiddleware(auth.NewJWTSessionResolver(testJWTSecret), testCookieName, nil))
	app.Get("/protected", apphttp.RequireRole(roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "role": string(apphttp.GetSession(c).Role)})
	})
	app.Get("/me", apphttp.RequireSession(), func(c *fiber.Ctx) error {
		s := apphttp.GetSession(c)
		return c.JSON(fiber.Map{"user_id": s.UserID, "email": s.Email, "customer_id": s.CustomerID})
	})
	return app
}

func TestSessionMiddleware_CookieAndBearer(t *testing.T) {
	app := buildRoleApp()
	tok := customerToken(t, "ana@cliente.com")

	for name, setup := range map[string]func(*http.Request){
		"cookie": withCookie(tok),
		"bearer": withBearer(tok),
	} {
		t.Run(name, func(t *testing.T) {
			resp := doGet(t, app, "/me", setup)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.Equal(t, "u-cust", body["user_id"])
			assert.Equal(t, "c-1", body["customer_id"])
		})
	}
}

func TestSessionMiddleware_CookieWinsOverBearer(t *testing.T) {
	app := buildRoleApp()
	resp := doGet(t, app, "/me", func(r *http.Request) {
		withCookie(customerToken(t, "ana@cliente.com"))(r)
		withBearer(adminToken(t))(r)
	})
	body := decodeBody(t, resp)
	assert.Equal(t, "u-cust", body["user_id"])
}

func TestRequireSession_Rejections(t *testing.T) {
	app := buildRoleApp()

	cases := map[string]func(*http.Request){
		"sin token":        nil,
		"token inválido":   withBearer("token.invalido.aqui"),
		"secreto distinto": withBearer(mustToken(t, "otro-secreto")),
		"rol desconocido":  withBearer(tokenFor(t, pkgjwt.Identity{UserID: "u-x", Role: "bodeguero"})),
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doGet(t, app, "/me", setup)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Run("admin pasa en ruta admin", func(t *testing.T) {
		resp := doGet(t, buildRoleApp(entity.RoleAdmin), "/protected", withBearer(adminToken(t)))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ADMIN", decodeBody(t, resp)["role"])
	})
	t.Run("cliente bloqueado en ruta admin", func(t *testing.T) {
		resp := doGet(t, buildRoleApp(entity.RoleAdmin), "/protected", withBearer(customerToken(t, "ana@cliente.com")))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeBody(t, resp)["code"])
	})
	t.Run("multi rol", func(t *testing.T) {
		resp := doGet(t, buildRoleApp(entity.RoleAdmin, entity.RoleCustomer), "/protected", withCookie(customerToken(t, "ana@cliente.com")))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
	t.Run("sin sesión", func(t *testing.T) {
		resp := doGet(t, buildRoleApp(entity.RoleAdmin), "/protected", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, pkgjwt.Identity{UserID: "u-1", Role: "ADMIN"}, testIssuer, 60)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}
