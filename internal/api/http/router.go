package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/booknow-hub/internal/api/http/handlers"
	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/observability"
	"github.com/spec-kit/booknow-hub/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Admin    *handlers.AdminHandler
	Tenant   *handlers.TenantHandler
	Schedule *handlers.ScheduleHandler
	Bearer   *auth.BearerMiddleware
	Guard    *session.Guard
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth", cfg.Bearer.Handle)
	authGroup.Post("/global/login", cfg.Auth.LoginGlobal)
	authGroup.Get("/global/session", cfg.Auth.GlobalSession)
	authGroup.Post("/tenants/:slug/login", cfg.Auth.LoginTenant)
	authGroup.Get("/tenants/:slug/session", cfg.Auth.TenantSession)
	authGroup.Post("/logout", cfg.Auth.Logout)

	platformAdmins := cfg.Guard.RequireGlobal(domain.OperatorRoleSuperAdmin, domain.OperatorRoleAdmin)
	admin := app.Group("/admin", cfg.Bearer.Handle)
	admin.Get("/tenants", cfg.Guard.RequireGlobal(), cfg.Admin.ListTenants)
	admin.Post("/tenants", platformAdmins, cfg.Admin.CreateTenant)
	admin.Patch("/tenants/:tenantID", platformAdmins, cfg.Admin.UpdateTenant)
	admin.Post("/tenants/:tenantID/members", platformAdmins, cfg.Admin.CreateTenantMember)
	admin.Post("/operators", cfg.Guard.RequireGlobal(domain.OperatorRoleSuperAdmin), cfg.Admin.CreateOperator)

	anyStaff := cfg.Guard.RequireTenant()
	tenantAdmins := cfg.Guard.RequireTenant(domain.MemberRoleOwner, domain.MemberRoleAdmin)
	schedulers := cfg.Guard.RequireTenant(domain.MemberRoleOwner, domain.MemberRoleAdmin, domain.MemberRoleManager)

	tenant := app.Group("/t/:slug", cfg.Bearer.Handle)
	tenant.Get("/members", tenantAdmins, cfg.Tenant.ListMembers)
	tenant.Post("/members", tenantAdmins, cfg.Tenant.CreateMember)
	tenant.Patch("/members/:memberID", tenantAdmins, cfg.Tenant.UpdateMember)
	tenant.Get("/branches", anyStaff, cfg.Tenant.ListBranches)
	tenant.Post("/branches", tenantAdmins, cfg.Tenant.CreateBranch)
	tenant.Get("/specialists", anyStaff, cfg.Tenant.ListSpecialists)
	tenant.Post("/specialists", schedulers, cfg.Tenant.CreateSpecialist)

	specialist := tenant.Group("/specialists/:specialistID")
	specialist.Get("/schedule", anyStaff, cfg.Schedule.ListWeekly)
	specialist.Post("/schedule/templates", schedulers, cfg.Schedule.ApplyTemplate)
	specialist.Put("/schedule/:weekday", schedulers, cfg.Schedule.UpsertWeekly)
	specialist.Delete("/schedule/:weekday", schedulers, cfg.Schedule.DeactivateWeekly)
	specialist.Get("/exceptions", anyStaff, cfg.Schedule.ListExceptions)
	specialist.Post("/exceptions", schedulers, cfg.Schedule.CreateException)
	specialist.Delete("/exceptions/:exceptionID", schedulers, cfg.Schedule.DeleteException)
	specialist.Get("/effective", anyStaff, cfg.Schedule.Effective)
}
