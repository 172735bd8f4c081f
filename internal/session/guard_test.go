package session

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/domain"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

// tokenAuthenticator accepts a fixed set of tokens.
type tokenAuthenticator struct {
	sessions map[string]*domain.Session
}

func (a *tokenAuthenticator) SignIn(context.Context, string, string) (*domain.Session, error) {
	return nil, auth.ErrInvalidCredentials
}

func (a *tokenAuthenticator) Verify(_ context.Context, token string) (*domain.Session, error) {
	return a.sessions[token], nil
}

func (a *tokenAuthenticator) Revoke(context.Context, string) error { return nil }

func newGuardApp(t *testing.T) *fiber.App {
	t.Helper()

	dir := newFakeDirectory()
	acme := dir.addTenant("acme", true)
	dir.addMember("owner", acme, domain.MemberRoleOwner)
	dir.addMember("employee", acme, domain.MemberRoleEmployee)
	dir.addOperator("operator", domain.OperatorRoleSupport, true)

	authn := &tokenAuthenticator{sessions: map[string]*domain.Session{
		"owner-token":    {ID: "s1", UserID: "owner"},
		"employee-token": {ID: "s2", UserID: "employee"},
		"operator-token": {ID: "s3", UserID: "operator"},
	}}

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)
		return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
	}})
	guard := NewGuard(dir.deps(), nil)
	app.Use(auth.NewBearerMiddleware(authn).Handle)

	app.Get("/t/:slug/settings", guard.RequireTenant(domain.MemberRoleOwner, domain.MemberRoleAdmin), func(c *fiber.Ctx) error {
		tc, ok := TenantFromFiber(c)
		require.True(t, ok)
		return c.SendString(tc.Tenant.Slug + ":" + string(tc.Member.Role))
	})
	app.Get("/admin/tenants", guard.RequireGlobal(), func(c *fiber.Ctx) error {
		gc, ok := GlobalFromFiber(c)
		require.True(t, ok)
		return c.SendString(string(gc.Operator.Role))
	})
	app.Post("/admin/operators", guard.RequireGlobal(domain.OperatorRoleSuperAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func TestGuard(t *testing.T) {
	app := newGuardApp(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"tenant owner admitted", "GET", "/t/acme/settings", "owner-token", fiber.StatusOK},
		{"tenant role too low", "GET", "/t/acme/settings", "employee-token", fiber.StatusForbidden},
		{"operator is not a tenant member", "GET", "/t/acme/settings", "operator-token", fiber.StatusForbidden},
		{"unknown tenant", "GET", "/t/nope/settings", "owner-token", fiber.StatusForbidden},
		{"no token", "GET", "/t/acme/settings", "", fiber.StatusUnauthorized},
		{"revoked token", "GET", "/t/acme/settings", "revoked-token", fiber.StatusUnauthorized},
		{"operator admitted", "GET", "/admin/tenants", "operator-token", fiber.StatusOK},
		{"member is not an operator", "GET", "/admin/tenants", "owner-token", fiber.StatusForbidden},
		{"support cannot create operators", "POST", "/admin/operators", "operator-token", fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestGuard_MalformedHeader(t *testing.T) {
	app := newGuardApp(t)

	req := httptest.NewRequest("GET", "/admin/tenants", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
