package domain

import "time"

// Identity is a credential row owned by the credential backend.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is an active backend session. AccessToken is never persisted by the session store.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// OperatorRole enumerates platform-level roles.
type OperatorRole string

const (
	OperatorRoleSuperAdmin OperatorRole = "super_admin"
	OperatorRoleAdmin      OperatorRole = "admin"
	OperatorRoleSupport    OperatorRole = "support"
)

// Valid reports whether r is a known operator role.
func (r OperatorRole) Valid() bool {
	switch r {
	case OperatorRoleSuperAdmin, OperatorRoleAdmin, OperatorRoleSupport:
		return true
	}
	return false
}

// GlobalOperator is a platform administrator, never tenant scoped.
type GlobalOperator struct {
	ID        string
	UserID    string
	Email     string
	FullName  string
	Role      OperatorRole
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemberRole enumerates tenant staff roles.
type MemberRole string

const (
	MemberRoleOwner    MemberRole = "owner"
	MemberRoleAdmin    MemberRole = "admin"
	MemberRoleManager  MemberRole = "manager"
	MemberRoleEmployee MemberRole = "employee"
)

// Valid reports whether r is a known member role.
func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleManager, MemberRoleEmployee:
		return true
	}
	return false
}

// TenantMember is a staff user scoped to exactly one tenant.
type TenantMember struct {
	ID        string
	TenantID  string
	UserID    string
	Email     string
	FullName  string
	Role      MemberRole
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
