package domain

import (
	"strings"
	"time"
)

// Role identifies which store a principal lives in. Each role has its own
// collection, so email uniqueness is scoped per role rather than globally.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
)

// ParseRole maps a route segment or token claim to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleOwner, RoleTenant:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// AccountStatus tracks the approval lifecycle of owners and tenants.
// Admins are created approved.
type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusApproved AccountStatus = "approved"
	StatusRejected AccountStatus = "rejected"
)

// Principal models an authenticated actor. All three roles share this shape;
// the tenant-only OTP challenge fields stay zero for admins and owners.
type Principal struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	FullName     string        `json:"full_name,omitempty"`
	PasswordHash string        `json:"-"`
	Role         Role          `json:"role"`
	RefreshToken string        `json:"-"` // last-issued marker, not a revocation credential
	Verified     bool          `json:"verified"`
	Status       AccountStatus `json:"status,omitempty"`
	OTP          string        `json:"-"`
	OTPExpiresAt time.Time     `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// EligibleForListings reports whether the principal may create dependent
// resources such as properties. Authentication alone never implies this:
// an unapproved owner can log in but cannot act.
func (p *Principal) EligibleForListings() bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleOwner:
		return p.Verified && p.Status == StatusApproved
	}
	return false
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// It is applied before every lookup and write so the same mailbox always
// resolves to the same record.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
