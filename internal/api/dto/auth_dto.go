package dto

import "time"

// LoginRequest payload for both login flows.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer token issued by a login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the resolved context of the caller.
type SessionResponse struct {
	Mode     string            `json:"mode"`
	Operator *OperatorResponse `json:"operator,omitempty"`
	Member   *MemberResponse   `json:"member,omitempty"`
	Tenant   *TenantResponse   `json:"tenant,omitempty"`
	Auth     *AuthResponse     `json:"auth,omitempty"`
}
