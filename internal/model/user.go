package model

import (
	"strings"
	"time"
)

// Role is the authorization role carried in a bearer token's `role`
// claim. Only two roles exist in the storefront: administrators, who
// may manage the catalog, and customers.
type Role string

const (
	RoleAdmin    Role = "ADMIN"    // catalog management
	RoleCustomer Role = "CUSTOMER" // browsing and cart
)

// ParseRole converts a claim or request value into a Role. Matching is
// case-insensitive; unknown values report false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleCustomer:
		return RoleCustomer, true
	}
	return "", false
}

// User is the identity the client derives from a decoded token. It is
// display information only; the server remains the authority.
//
// Fields:
//
//	Email – the token subject (`sub`).
//	Role  – ADMIN or CUSTOMER.
type User struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Claims are the facts embedded in a bearer token payload.
//
// Fields:
//
//	Subject   – subject email (`sub`).
//	Role      – `role` claim.
//	ExpiresAt – `exp` claim, whole seconds since the epoch.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// User returns the display identity encoded by the claims.
func (c Claims) User() User {
	return User{Email: c.Subject, Role: c.Role}
}

// Account mirrors a row of the server-side `users` table. It is used
// only by the reference API's repositories.
type Account struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
