package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/studio-portal/internal/application/access"
	"github.com/jhoicas/studio-portal/internal/application/auth"
	apphttp "github.com/jhoicas/studio-portal/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/studio-portal/pkg/jwt"
)

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testCookieName = "studio_session"
	testIssuer     = "studio-portal-test"
)

type fakeLeads struct {
	known map[string]bool
	err   error
}

func (f *fakeLeads) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[email], nil
}

func adminToken(t *testing.T) string {
	return tokenFor(t, pkgjwt.Identity{UserID: "u-admin", Email: "ops@estudio.test", Role: "ADMIN"})
}

func customerToken(t *testing.T, email string) string {
	return tokenFor(t, pkgjwt.Identity{UserID: "u-cust", Email: email, CustomerID: "c-1", Role: "CUSTOMER"})
}

func tokenFor(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, id, testIssuer, 60)
	require.NoError(t, err)
	return tok
}

// buildGuardedApp arma sesión + guard y handlers dummy que responden 200 con la sesión vista.
func buildGuardedApp(leads *fakeLeads) *fiber.App {
	app := fiber.New()
	app.Use(apphttp.SessionMiddleware(auth.NewJWTSessionResolver(testJWTSecret), testCookieName, nil))
	app.Use(apphttp.RouteGuard(access.NewGuard(leads, nil)))
	echo := func(c *fiber.Ctx) error {
		s := apphttp.GetSession(c)
		if s == nil {
			return c.JSON(fiber.Map{"path": c.Path(), "role": ""})
		}
		return c.JSON(fiber.Map{"path": c.Path(), "role": string(s.Role), "user_id": s.UserID})
	}
	app.Get(access.AccessDeniedPath, echo)
	app.Get("/login", echo)
	app.Get("/admin", echo)
	app.Get("/admin/*", echo)
	app.Get("/portal", echo)
	app.Get("/portal/*", echo)
	app.Get("/", echo)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string, setup func(*http.Request)) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if setup != nil {
		setup(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func withCookie(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}
