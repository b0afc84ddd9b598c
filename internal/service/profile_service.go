package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type profileRepository interface {
	FindByPrincipal(ctx context.Context, principal string) (*models.StoredProfile, error)
	Upsert(ctx context.Context, profile *models.StoredProfile) error
}

// ProfileService stores display profiles keyed by identity.
type ProfileService struct {
	repo   profileRepository
	access accessPolicy
	audit  AuditRecorder
	logger *zap.Logger
}

// NewProfileService constructs the profile store.
func NewProfileService(repo profileRepository, access accessPolicy, audit AuditRecorder, logger *zap.Logger) *ProfileService {
	if audit == nil {
		audit = nopAuditRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, access: access, audit: audit, logger: logger}
}

// CallerProfile returns the caller's own profile. The boolean is false when none was saved.
func (s *ProfileService) CallerProfile(ctx context.Context, caller models.Caller) (*models.UserProfile, bool, error) {
	if err := s.access.RequireIdentity(caller); err != nil {
		return nil, false, err
	}
	return s.lookup(ctx, caller.Principal)
}

// Profile returns another identity's profile. Only the identity itself or an admin may read it.
func (s *ProfileService) Profile(ctx context.Context, caller models.Caller, target string) (*models.UserProfile, bool, error) {
	if err := s.access.RequireSelfOrAdmin(ctx, caller, target); err != nil {
		return nil, false, err
	}
	return s.lookup(ctx, target)
}

// SaveCallerProfile replaces the caller's profile.
func (s *ProfileService) SaveCallerProfile(ctx context.Context, caller models.Caller, profile models.UserProfile) (*models.UserProfile, error) {
	if err := s.access.RequireIdentity(caller); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "name is required")
	}

	if err := s.repo.Upsert(ctx, &models.StoredProfile{Principal: caller.Principal, Name: name}); err != nil {
		return nil, appErrors.Internal(err, "failed to save profile")
	}
	s.audit.Record(ctx, AuditEvent{
		Actor:      caller,
		Action:     models.AuditActionProfileSave,
		Resource:   "profile",
		ResourceID: caller.Principal,
		Values:     map[string]string{"name": name},
	})
	return &models.UserProfile{Name: name}, nil
}

// DisplayName returns the stored name for principal, or an empty string if no profile exists.
func (s *ProfileService) DisplayName(ctx context.Context, principal string) (string, error) {
	profile, ok, err := s.lookup(ctx, principal)
	if err != nil || !ok {
		return "", err
	}
	return profile.Name, nil
}

func (s *ProfileService) lookup(ctx context.Context, principal string) (*models.UserProfile, bool, error) {
	stored, err := s.repo.FindByPrincipal(ctx, principal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, appErrors.Internal(err, "failed to load profile")
	}
	return &models.UserProfile{Name: stored.Name}, true, nil
}
