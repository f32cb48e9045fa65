package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	apphttp "github.com/jhoicas/fakturi-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/fakturi-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
)

func bearer(t *testing.T, role entity.Role) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, "fakturi-test", 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

// guardedApp GET /guarded con JWT + roles; responde el rol leído de los locals.
func guardedApp(roles ...entity.Role) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"role": apphttp.GetRole(c)})
		},
	)
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware + RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_Politica(t *testing.T) {
	owner := []entity.Role{entity.RoleOwner}
	bookkeeping := []entity.Role{entity.RoleOwner, entity.RoleAccountant}

	cases := []struct {
		name     string
		roles    []entity.Role
		header   func(t *testing.T) string
		status   int
		wantCode string
	}{
		{"owner en ruta de owner", owner, func(t *testing.T) string { return bearer(t, "owner") }, http.StatusOK, ""},
		{"contable en ruta contable", bookkeeping, func(t *testing.T) string { return bearer(t, "accountant") }, http.StatusOK, ""},
		{"vendedor en ruta de owner", owner, func(t *testing.T) string { return bearer(t, "seller") }, http.StatusForbidden, "FORBIDDEN"},
		{"vendedor en ruta contable", bookkeeping, func(t *testing.T) string { return bearer(t, "seller") }, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", owner, func(t *testing.T) string { return bearer(t, "") }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"rol desconocido", owner, func(t *testing.T) string { return bearer(t, "admin") }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"sin cabecera", owner, func(*testing.T) string { return "" }, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema Basic", owner, func(*testing.T) string { return "Basic dXNlcjpwYXNz" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", owner, func(*testing.T) string { return "Bearer a.b.c" }, http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if h := tc.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			resp, err := guardedApp(tc.roles...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.wantCode != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.wantCode)
			}
		})
	}
}

func TestAuthMiddleware_CargaLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/who", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", bearer(t, "seller"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{
		"user_id":    testUserID,
		"company_id": testCompanyID,
		"role":       "seller",
	}, body)
}
