package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booknow-hub/internal/api/dto"
	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/service"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

// AdminHandler exposes the platform console endpoints.
type AdminHandler struct {
	tenants *service.TenantService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(tenants *service.TenantService) *AdminHandler {
	return &AdminHandler{tenants: tenants}
}

// ListTenants handles GET /admin/tenants.
func (h *AdminHandler) ListTenants(c *fiber.Ctx) error {
	tenants, err := h.tenants.ListTenants(c.UserContext(), c.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}
	resp := make([]dto.TenantResponse, 0, len(tenants))
	for i := range tenants {
		resp = append(resp, tenantResponse(&tenants[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateTenant handles POST /admin/tenants.
func (h *AdminHandler) CreateTenant(c *fiber.Ctx) error {
	var req dto.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	tenant, err := h.tenants.CreateTenant(c.UserContext(), req.Slug, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": tenantResponse(tenant)})
}

// UpdateTenant handles PATCH /admin/tenants/:tenantID.
func (h *AdminHandler) UpdateTenant(c *fiber.Ctx) error {
	tenantID, err := uuidParam(c, "tenantID")
	if err != nil {
		return err
	}
	var req dto.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.IsActive == nil {
		return apperrors.NewValidationError("is_active required", nil)
	}
	tenant, err := h.tenants.SetTenantActive(c.UserContext(), tenantID, *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tenantResponse(tenant)})
}

// CreateTenantMember handles POST /admin/tenants/:tenantID/members, typically to seat an owner.
func (h *AdminHandler) CreateTenantMember(c *fiber.Ctx) error {
	tenantID, err := uuidParam(c, "tenantID")
	if err != nil {
		return err
	}
	var req dto.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	member, err := h.tenants.RegisterMember(c.UserContext(), tenantID, accountInput(req), domain.MemberRole(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": memberResponse(member)})
}

// CreateOperator handles POST /admin/operators.
func (h *AdminHandler) CreateOperator(c *fiber.Ctx) error {
	var req dto.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	operator, err := h.tenants.CreateOperator(c.UserContext(), accountInput(req), domain.OperatorRole(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": operatorResponse(operator)})
}

func accountInput(req dto.AccountRequest) service.AccountInput {
	return service.AccountInput{Email: req.Email, Password: req.Password, FullName: req.FullName}
}
