package dto

// AssignRoleRequest is the payload of a role assignment.
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user guest"`
}

// RoleResponse reports the caller's resolved role.
type RoleResponse struct {
	Principal string `json:"principal,omitempty"`
	Role      string `json:"role"`
}

// AdminResponse reports whether the caller is an admin.
type AdminResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// RoleAssignmentResponse echoes a completed assignment.
type RoleAssignmentResponse struct {
	Principal string `json:"principal"`
	Role      string `json:"role"`
}
