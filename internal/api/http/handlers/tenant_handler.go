package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booknow-hub/internal/api/dto"
	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/repository"
	"github.com/spec-kit/booknow-hub/internal/service"
)

// TenantHandler exposes staff, branch and specialist endpoints of one tenant.
type TenantHandler struct {
	tenants *service.TenantService
}

// NewTenantHandler constructs handler.
func NewTenantHandler(tenants *service.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// ListMembers handles GET /t/:slug/members.
func (h *TenantHandler) ListMembers(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	filter := repository.MemberFilter{
		TenantID: tc.Tenant.ID,
		Limit:    c.QueryInt("limit", 50),
		Offset:   c.QueryInt("offset", 0),
	}
	if role := c.Query("role"); role != "" {
		r := domain.MemberRole(role)
		filter.Role = &r
	}
	if active := c.Query("active"); active != "" {
		v := c.QueryBool("active")
		filter.Active = &v
	}

	members, err := h.tenants.ListMembers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, memberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateMember handles POST /t/:slug/members.
func (h *TenantHandler) CreateMember(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	var req dto.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	member, err := h.tenants.RegisterMember(c.UserContext(), tc.Tenant.ID, accountInput(req), domain.MemberRole(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": memberResponse(member)})
}

// UpdateMember handles PATCH /t/:slug/members/:memberID.
func (h *TenantHandler) UpdateMember(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	memberID, err := uuidParam(c, "memberID")
	if err != nil {
		return err
	}
	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	input := service.MemberUpdateInput{FullName: req.FullName, IsActive: req.IsActive}
	if req.Role != nil {
		role := domain.MemberRole(*req.Role)
		input.Role = &role
	}
	member, err := h.tenants.UpdateMember(c.UserContext(), tc.Tenant.ID, memberID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponse(member)})
}

// ListBranches handles GET /t/:slug/branches.
func (h *TenantHandler) ListBranches(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	branches, err := h.tenants.ListBranches(c.UserContext(), tc.Tenant.ID, c.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}
	resp := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		resp = append(resp, branchResponse(&branches[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateBranch handles POST /t/:slug/branches.
func (h *TenantHandler) CreateBranch(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	var req dto.BranchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	branch := &domain.Branch{TenantID: tc.Tenant.ID, Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := h.tenants.CreateBranch(c.UserContext(), branch); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": branchResponse(branch)})
}

// ListSpecialists handles GET /t/:slug/specialists.
func (h *TenantHandler) ListSpecialists(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	specialists, err := h.tenants.ListSpecialists(c.UserContext(), tc.Tenant.ID, c.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}
	resp := make([]dto.SpecialistResponse, 0, len(specialists))
	for i := range specialists {
		resp = append(resp, specialistResponse(&specialists[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateSpecialist handles POST /t/:slug/specialists.
func (h *TenantHandler) CreateSpecialist(c *fiber.Ctx) error {
	tc, err := requireTenant(c)
	if err != nil {
		return err
	}
	var req dto.SpecialistRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	specialist := &domain.Specialist{TenantID: tc.Tenant.ID, FullName: req.FullName, Email: req.Email, Phone: req.Phone}
	if err := h.tenants.CreateSpecialist(c.UserContext(), specialist); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": specialistResponse(specialist)})
}
