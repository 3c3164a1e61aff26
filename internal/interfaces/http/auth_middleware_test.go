package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Revenue-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Revenue-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "revenue-api-test"
	testExpMin    = 60
)

// checkerFunc adapta una función al contrato de RequireCompany.
type checkerFunc func(ctx context.Context, id string) (*entity.Company, error)

func (f checkerFunc) GetByID(ctx context.Context, id string) (*entity.Company, error) { return f(ctx, id) }

// guardedApp: GET /guarded con AuthMiddleware + RequireRole(roles...) y un handler que
// devuelve el rol visto.
func guardedApp(roles ...string) *fiber.App {
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

// tenantApp: GET /tenant con AuthMiddleware + RequireCompany(checker).
func tenantApp(checker checkerFunc) *fiber.App {
	app := fiber.New()
	app.Get("/tenant",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireCompany(checker),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) },
	)
	return app
}

func bearer(t *testing.T, companyID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, companyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, path, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware + RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_MatrizDeAcceso(t *testing.T) {
	cases := []struct {
		name     string
		allowed  []string
		auth     func(t *testing.T) string
		status   int
		wantCode string
	}{
		{"admin en ruta admin", []string{pkgjwt.RoleAdmin},
			func(t *testing.T) string { return bearer(t, testCompanyID, pkgjwt.RoleAdmin) }, http.StatusOK, ""},
		{"viewer en ruta admin o viewer", []string{pkgjwt.RoleAdmin, pkgjwt.RoleViewer},
			func(t *testing.T) string { return bearer(t, testCompanyID, pkgjwt.RoleViewer) }, http.StatusOK, ""},
		{"viewer en ruta admin", []string{pkgjwt.RoleAdmin},
			func(t *testing.T) string { return bearer(t, testCompanyID, pkgjwt.RoleViewer) }, http.StatusForbidden, "FORBIDDEN"},
		{"rol desconocido", []string{pkgjwt.RoleAdmin, pkgjwt.RoleViewer},
			func(t *testing.T) string { return bearer(t, testCompanyID, "auditor") }, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{pkgjwt.RoleAdmin},
			func(t *testing.T) string { return bearer(t, testCompanyID, "") }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"token sin empresa", []string{pkgjwt.RoleAdmin},
			func(t *testing.T) string { return bearer(t, "", pkgjwt.RoleAdmin) }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"sin header", []string{pkgjwt.RoleAdmin},
			func(*testing.T) string { return "" }, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto de Bearer", []string{pkgjwt.RoleAdmin},
			func(*testing.T) string { return "Basic dXNlcjpwYXNz" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", []string{pkgjwt.RoleAdmin},
			func(*testing.T) string { return "Bearer token.invalido.aqui" }, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, guardedApp(tc.allowed...), "/guarded", tc.auth(t))
			assert.Equal(t, tc.status, status)
			if tc.wantCode != "" {
				assert.Contains(t, body, tc.wantCode)
			}
		})
	}
}

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	status, raw := get(t, app, "/me", bearer(t, testCompanyID, pkgjwt.RoleViewer))
	require.Equal(t, http.StatusOK, status)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, pkgjwt.RoleViewer, body["role"])
}

func TestAuthMiddleware_OtroSecretoRechazado(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secreto", testUserID, testCompanyID, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	status, body := get(t, guardedApp(pkgjwt.RoleAdmin), "/guarded", "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "INVALID_TOKEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireCompany
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireCompany(t *testing.T) {
	cases := []struct {
		name     string
		checker  checkerFunc
		status   int
		wantCode string
	}{
		{"empresa existente", func(_ context.Context, id string) (*entity.Company, error) {
			return &entity.Company{ID: id}, nil
		}, http.StatusNoContent, ""},
		{"empresa inexistente", func(context.Context, string) (*entity.Company, error) {
			return nil, domain.ErrCompanyNotFound
		}, http.StatusNotFound, "COMPANY_NOT_FOUND"},
		{"base de datos caída", func(context.Context, string) (*entity.Company, error) {
			return nil, errDown
		}, http.StatusServiceUnavailable, "COMPANY_CHECK_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, tenantApp(tc.checker), "/tenant", bearer(t, testCompanyID, pkgjwt.RoleViewer))
			assert.Equal(t, tc.status, status)
			if tc.wantCode != "" {
				assert.Contains(t, body, tc.wantCode)
			}
		})
	}
}

func TestRequireCompany_ConsultaLaEmpresaDelToken(t *testing.T) {
	var asked string
	app := tenantApp(func(_ context.Context, id string) (*entity.Company, error) {
		asked = id
		return &entity.Company{ID: id}, nil
	})

	status, _ := get(t, app, "/tenant", bearer(t, testCompanyID, pkgjwt.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, testCompanyID, asked)
}
