package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/repository"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// IdentityProvisioner creates or reuses backend credentials.
type IdentityProvisioner interface {
	EnsureIdentity(ctx context.Context, email, password string) (*domain.Identity, bool, error)
}

// TenantService covers tenant, operator, member, branch and specialist administration.
type TenantService struct {
	tenants     repository.TenantRepository
	operators   repository.GlobalOperatorRepository
	members     repository.TenantMemberRepository
	branches    repository.BranchRepository
	specialists repository.SpecialistRepository
	identities  IdentityProvisioner
	logger      *zap.Logger
}

// TenantDependencies bundles repositories for the tenant service.
type TenantDependencies struct {
	TenantRepo     repository.TenantRepository
	OperatorRepo   repository.GlobalOperatorRepository
	MemberRepo     repository.TenantMemberRepository
	BranchRepo     repository.BranchRepository
	SpecialistRepo repository.SpecialistRepository
	Identities     IdentityProvisioner
}

// NewTenantService constructs the service.
func NewTenantService(deps TenantDependencies, logger *zap.Logger) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{
		tenants:     deps.TenantRepo,
		operators:   deps.OperatorRepo,
		members:     deps.MemberRepo,
		branches:    deps.BranchRepo,
		specialists: deps.SpecialistRepo,
		identities:  deps.Identities,
		logger:      logger,
	}
}

// AccountInput describes the person behind a new operator or member.
type AccountInput struct {
	Email    string
	Password string
	FullName string
}

// MemberUpdateInput carries optional member changes.
type MemberUpdateInput struct {
	FullName *string
	Role     *domain.MemberRole
	IsActive *bool
}

// CreateTenant registers a company under a unique slug.
func (s *TenantService) CreateTenant(ctx context.Context, slug, name string) (*domain.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	name = strings.TrimSpace(name)
	if !slugPattern.MatchString(slug) {
		return nil, apperrors.NewValidationError("slug must be lowercase letters, digits and hyphens", map[string]any{"slug": slug})
	}
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	tenant := &domain.Tenant{Slug: slug, Name: name, IsActive: true}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("slug already taken", map[string]any{"slug": slug})
		}
		return nil, err
	}
	return tenant, nil
}

// ListTenants returns tenants, active ones only unless includeInactive.
func (s *TenantService) ListTenants(ctx context.Context, includeInactive bool) ([]domain.Tenant, error) {
	return s.tenants.List(ctx, includeInactive)
}

// GetTenantBySlug returns a tenant regardless of its active flag.
func (s *TenantService) GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetBySlug(ctx, slug)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFound("tenant", map[string]any{"slug": slug})
	}
	return tenant, err
}

// SetTenantActive toggles a tenant. Deactivated tenants stop resolving for their members.
func (s *TenantService) SetTenantActive(ctx context.Context, tenantID string, active bool) (*domain.Tenant, error) {
	if err := s.tenants.SetActive(ctx, tenantID, active); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("tenant", map[string]any{"id": tenantID})
		}
		return nil, err
	}
	s.logger.Info("tenant active flag changed", zap.String("tenant_id", tenantID), zap.Bool("active", active))
	return s.tenants.GetByID(ctx, tenantID)
}

// CreateOperator creates a global operator, reusing an existing credential for the email.
func (s *TenantService) CreateOperator(ctx context.Context, input AccountInput, role domain.OperatorRole) (*domain.GlobalOperator, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid operator role", map[string]any{"role": role})
	}
	identity, err := s.provision(ctx, input)
	if err != nil {
		return nil, err
	}

	operator := &domain.GlobalOperator{
		UserID:   identity.ID,
		Email:    identity.Email,
		FullName: strings.TrimSpace(input.FullName),
		Role:     role,
		IsActive: true,
	}
	if err := s.operators.Create(ctx, operator); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("identity is already an operator", map[string]any{"email": identity.Email})
		}
		return nil, err
	}
	return operator, nil
}

// RegisterMember adds a staff member to a tenant, reusing an existing credential for the email.
func (s *TenantService) RegisterMember(ctx context.Context, tenantID string, input AccountInput, role domain.MemberRole) (*domain.TenantMember, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid member role", map[string]any{"role": role})
	}
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("tenant", map[string]any{"id": tenantID})
		}
		return nil, err
	}
	identity, err := s.provision(ctx, input)
	if err != nil {
		return nil, err
	}

	member := &domain.TenantMember{
		TenantID: tenantID,
		UserID:   identity.ID,
		Email:    identity.Email,
		FullName: strings.TrimSpace(input.FullName),
		Role:     role,
		IsActive: true,
	}
	if err := s.members.Create(ctx, member); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("identity is already a member of this tenant", map[string]any{"email": identity.Email})
		}
		return nil, err
	}
	return member, nil
}

// ListMembers returns members matching filter.
func (s *TenantService) ListMembers(ctx context.Context, filter repository.MemberFilter) ([]domain.TenantMember, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = 50
	case filter.Limit > 200:
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.members.List(ctx, filter)
}

// UpdateMember applies the set fields of input.
func (s *TenantService) UpdateMember(ctx context.Context, tenantID, memberID string, input MemberUpdateInput) (*domain.TenantMember, error) {
	member, err := s.members.GetByID(ctx, tenantID, memberID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFound("member", map[string]any{"id": memberID})
	}
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		member.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid member role", map[string]any{"role": *input.Role})
		}
		member.Role = *input.Role
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// SetMemberActive toggles a membership. An inactive member no longer resolves to a tenant context.
func (s *TenantService) SetMemberActive(ctx context.Context, tenantID, memberID string, active bool) (*domain.TenantMember, error) {
	return s.UpdateMember(ctx, tenantID, memberID, MemberUpdateInput{IsActive: &active})
}

// CreateBranch adds a location to a tenant.
func (s *TenantService) CreateBranch(ctx context.Context, branch *domain.Branch) error {
	branch.Name = strings.TrimSpace(branch.Name)
	if branch.Name == "" {
		return apperrors.NewValidationError("branch name is required", nil)
	}
	branch.IsActive = true
	return s.branches.Create(ctx, branch)
}

// ListBranches returns the branches of a tenant.
func (s *TenantService) ListBranches(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Branch, error) {
	return s.branches.List(ctx, tenantID, includeInactive)
}

// CreateSpecialist adds a bookable staff member to a tenant.
func (s *TenantService) CreateSpecialist(ctx context.Context, specialist *domain.Specialist) error {
	specialist.FullName = strings.TrimSpace(specialist.FullName)
	if specialist.FullName == "" {
		return apperrors.NewValidationError("full_name is required", nil)
	}
	specialist.IsActive = true
	return s.specialists.Create(ctx, specialist)
}

// ListSpecialists returns the specialists of a tenant.
func (s *TenantService) ListSpecialists(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Specialist, error) {
	return s.specialists.List(ctx, tenantID, includeInactive)
}

func (s *TenantService) provision(ctx context.Context, input AccountInput) (*domain.Identity, error) {
	identity, created, err := s.identities.EnsureIdentity(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("identity created", zap.String("user_id", identity.ID))
	}
	return identity, nil
}
