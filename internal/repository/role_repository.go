package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// RoleRepository persists the identity to role registry.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository constructs the repository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindByPrincipal returns the explicit assignment for a principal or sql.ErrNoRows.
func (r *RoleRepository) FindByPrincipal(ctx context.Context, principal string) (*models.RoleAssignment, error) {
	const query = `SELECT principal, role, assigned_by, updated_at FROM user_roles WHERE principal = $1`
	var assignment models.RoleAssignment
	if err := r.db.GetContext(ctx, &assignment, query, principal); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Upsert stores or replaces the assignment for a principal.
func (r *RoleRepository) Upsert(ctx context.Context, assignment *models.RoleAssignment) error {
	if assignment.UpdatedAt.IsZero() {
		assignment.UpdatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO user_roles (principal, role, assigned_by, updated_at)
VALUES (:principal, :role, :assigned_by, :updated_at)
ON CONFLICT (principal)
DO UPDATE SET role = EXCLUDED.role, assigned_by = EXCLUDED.assigned_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("upsert role assignment: %w", err)
	}
	return nil
}
