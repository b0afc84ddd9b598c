package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// ProfileRepository persists user display profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByPrincipal returns the stored profile or sql.ErrNoRows.
func (r *ProfileRepository) FindByPrincipal(ctx context.Context, principal string) (*models.StoredProfile, error) {
	const query = `SELECT principal, name, updated_at FROM user_profiles WHERE principal = $1`
	var profile models.StoredProfile
	if err := r.db.GetContext(ctx, &profile, query, principal); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or overwrites the profile for a principal.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.StoredProfile) error {
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO user_profiles (principal, name, updated_at)
VALUES (:principal, :name, :updated_at)
ON CONFLICT (principal)
DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
