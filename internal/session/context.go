package session

import "github.com/spec-kit/booknow-hub/internal/domain"

// Mode names the kind of the active session context.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeGlobal Mode = "global"
	ModeTenant Mode = "tenant"
)

// Context is the resolved authorization context. It is either *GlobalContext or *TenantContext;
// a nil Context means no context.
type Context interface {
	Mode() Mode
	UserID() string
	sealed()
}

// GlobalContext is held by an active global operator.
type GlobalContext struct {
	Operator domain.GlobalOperator
}

func (*GlobalContext) Mode() Mode { return ModeGlobal }

func (g *GlobalContext) UserID() string { return g.Operator.UserID }

func (*GlobalContext) sealed() {}

// TenantContext is held by an active member of one active tenant.
type TenantContext struct {
	Member domain.TenantMember
	Tenant domain.Tenant
}

func (*TenantContext) Mode() Mode { return ModeTenant }

func (t *TenantContext) UserID() string { return t.Member.UserID }

func (*TenantContext) sealed() {}

// ModeOf returns the mode of c, treating nil as ModeNone.
func ModeOf(c Context) Mode {
	if c == nil {
		return ModeNone
	}
	return c.Mode()
}
