package models

import (
	"fmt"
	"strings"
	"time"
)

// UserRole is the closed set of roles known to the role registry.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleGuest UserRole = "guest"
)

// ParseUserRole converts raw input into a known role.
func ParseUserRole(raw string) (UserRole, error) {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleAdmin, RoleUser, RoleGuest:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Caller is the authenticated identity attached to a single request. The zero value is the
// anonymous caller.
type Caller struct {
	Principal string
}

// Anonymous reports whether the request carried no verified identity.
func (c Caller) Anonymous() bool {
	return c.Principal == ""
}

// Is reports whether the caller is the given principal.
func (c Caller) Is(principal string) bool {
	return !c.Anonymous() && c.Principal == principal
}

// RoleAssignment is a persisted entry of the role registry.
type RoleAssignment struct {
	Principal  string    `db:"principal" json:"principal"`
	Role       UserRole  `db:"role" json:"role"`
	AssignedBy *string   `db:"assigned_by" json:"assigned_by,omitempty"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
