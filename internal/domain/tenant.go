package domain

import "time"

// Tenant is a company using the platform.
type Tenant struct {
	ID        string
	Slug      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Branch is a physical location of a tenant.
type Branch struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Specialist is a staff member who can be booked.
type Specialist struct {
	ID        string
	TenantID  string
	FullName  string
	Email     string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
