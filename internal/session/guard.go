package session

import (
	"context"
	"errors"
	"slices"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/domain"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

const contextKey = "session_context"

var errMissingClient = errors.New("credential client missing from request")

// Guard re-resolves the session context of every request from its bearer token.
type Guard struct {
	deps   ResolverDependencies
	logger *zap.Logger
}

// NewGuard constructs a guard. It must run after auth.BearerMiddleware.
func NewGuard(deps ResolverDependencies, logger *zap.Logger) *Guard {
	return &Guard{deps: deps, logger: logger}
}

// ResolverFor builds a resolver bound to the request's credential client.
func (g *Guard) ResolverFor(c *fiber.Ctx) (*Resolver, *auth.Client, error) {
	client, ok := auth.ClientFromContext(c)
	if !ok {
		return nil, nil, apperrors.NewInternalError(errMissingClient)
	}
	return NewResolver(client, g.deps, g.logger), client, nil
}

// RequireGlobal admits requests from active operators holding one of roles (any role when empty).
func (g *Guard) RequireGlobal(roles ...domain.OperatorRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resolver, client, err := g.ResolverFor(c)
		if err != nil {
			return err
		}
		gc, err := resolver.ResolveGlobal(c.UserContext())
		if err != nil {
			return err
		}
		if gc == nil {
			return denial(c.UserContext(), client)
		}
		if len(roles) > 0 && !slices.Contains(roles, gc.Operator.Role) {
			return apperrors.NewForbidden("insufficient operator role")
		}
		SetFiberContext(c, gc)
		return c.Next()
	}
}

// RequireTenant admits requests from active members of the tenant named by the :slug param
// holding one of roles (any role when empty).
func (g *Guard) RequireTenant(roles ...domain.MemberRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resolver, client, err := g.ResolverFor(c)
		if err != nil {
			return err
		}
		tc, err := resolver.ResolveTenant(c.UserContext(), c.Params("slug"))
		if err != nil {
			return err
		}
		if tc == nil {
			return denial(c.UserContext(), client)
		}
		if len(roles) > 0 && !slices.Contains(roles, tc.Member.Role) {
			return apperrors.NewForbidden("insufficient tenant role")
		}
		SetFiberContext(c, tc)
		return c.Next()
	}
}

// denial distinguishes "not signed in" from "signed in without access". A dead token has already
// been cleared from the client by resolution.
func denial(ctx context.Context, client *auth.Client) error {
	token, err := client.AccessToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	return apperrors.NewForbidden("no access to this context")
}

// SetFiberContext attaches a resolved context to the request.
func SetFiberContext(c *fiber.Ctx, sc Context) {
	c.Locals(contextKey, sc)
}

// GlobalFromFiber returns the context placed by RequireGlobal.
func GlobalFromFiber(c *fiber.Ctx) (*GlobalContext, bool) {
	gc, ok := c.Locals(contextKey).(*GlobalContext)
	return gc, ok
}

// TenantFromFiber returns the context placed by RequireTenant.
func TenantFromFiber(c *fiber.Ctx) (*TenantContext, bool) {
	tc, ok := c.Locals(contextKey).(*TenantContext)
	return tc, ok
}
