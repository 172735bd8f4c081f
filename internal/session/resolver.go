package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/observability"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

// OperatorLookup finds the global operator row of a backend user.
type OperatorLookup interface {
	GetByUserID(ctx context.Context, userID string) (*domain.GlobalOperator, error)
}

// TenantLookup finds a tenant by slug.
type TenantLookup interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// MemberLookup finds the active membership of a user in a tenant.
type MemberLookup interface {
	GetActive(ctx context.Context, userID, tenantID string) (*domain.TenantMember, error)
}

// ResolverDependencies groups the lookups used for resolution.
type ResolverDependencies struct {
	Operators OperatorLookup
	Tenants   TenantLookup
	Members   MemberLookup
	Metrics   *observability.Metrics
}

// Resolver turns the current backend session into a typed context.
// Absence of a session or of a role is a nil result, never an error.
type Resolver struct {
	backend   auth.Backend
	operators OperatorLookup
	tenants   TenantLookup
	members   MemberLookup
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewResolver binds lookups to a credential backend.
func NewResolver(backend auth.Backend, deps ResolverDependencies, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		backend:   backend,
		operators: deps.Operators,
		tenants:   deps.Tenants,
		members:   deps.Members,
		metrics:   deps.Metrics,
		logger:    logger,
	}
}

// SignIn delegates to the backend. It does not establish a context.
func (r *Resolver) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	return r.backend.SignInWithPassword(ctx, email, password)
}

// SignOut ends the backend session.
func (r *Resolver) SignOut(ctx context.Context) error {
	return r.backend.SignOut(ctx)
}

// ResolveGlobal returns the global context of the current session, or nil.
func (r *Resolver) ResolveGlobal(ctx context.Context) (*GlobalContext, error) {
	gc, err := r.resolveGlobal(ctx)
	r.record("global", gc != nil, err)
	return gc, err
}

func (r *Resolver) resolveGlobal(ctx context.Context) (*GlobalContext, error) {
	session, err := r.backend.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}

	operator, err := r.operators.GetByUserID(ctx, session.UserID)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !operator.IsActive {
		return nil, nil
	}
	return &GlobalContext{Operator: *operator}, nil
}

// ResolveTenant returns the tenant context of the current session in the tenant named by slug, or nil.
// Inactive tenants resolve to nil.
func (r *Resolver) ResolveTenant(ctx context.Context, slug string) (*TenantContext, error) {
	tc, err := r.resolveTenant(ctx, slug)
	r.record("tenant", tc != nil, err)
	return tc, err
}

func (r *Resolver) resolveTenant(ctx context.Context, slug string) (*TenantContext, error) {
	session, err := r.backend.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}

	tenant, err := r.tenants.GetBySlug(ctx, slug)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive {
		return nil, nil
	}

	member, err := r.members.GetActive(ctx, session.UserID, tenant.ID)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, nil
	}
	return &TenantContext{Member: *member, Tenant: *tenant}, nil
}

func (r *Resolver) record(flow string, granted bool, err error) {
	outcome := "denied"
	switch {
	case err != nil:
		outcome = "error"
		r.logger.Warn("session resolution failed", zap.String("flow", flow), zap.Error(err))
	case granted:
		outcome = "granted"
	}
	r.metrics.RecordResolution(flow, outcome)
}
