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

type roleRepository interface {
	FindByPrincipal(ctx context.Context, principal string) (*models.RoleAssignment, error)
	Upsert(ctx context.Context, assignment *models.RoleAssignment) error
}

// accessPolicy is the subset of AccessService the ledgers depend on.
type accessPolicy interface {
	RequireIdentity(caller models.Caller) error
	RequireAdmin(ctx context.Context, caller models.Caller) error
	RequireSelfOrAdmin(ctx context.Context, caller models.Caller, target string) error
}

// AccessService is the role registry and the single place where authorization is decided.
type AccessService struct {
	repo     roleRepository
	baseline models.UserRole
	audit    AuditRecorder
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewAccessService constructs the registry. baseline is the role of identities without an
// explicit assignment.
func NewAccessService(repo roleRepository, baseline models.UserRole, audit AuditRecorder, metrics *MetricsService, logger *zap.Logger) *AccessService {
	if baseline == "" {
		baseline = models.RoleGuest
	}
	if audit == nil {
		audit = nopAuditRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{repo: repo, baseline: baseline, audit: audit, metrics: metrics, logger: logger}
}

// CallerRole resolves the caller's role. Anonymous callers are always guests.
func (s *AccessService) CallerRole(ctx context.Context, caller models.Caller) (models.UserRole, error) {
	if caller.Anonymous() {
		return models.RoleGuest, nil
	}
	assignment, err := s.repo.FindByPrincipal(ctx, caller.Principal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.baseline, nil
		}
		return "", appErrors.Internal(err, "failed to resolve role")
	}
	return assignment.Role, nil
}

// IsAdmin reports whether the caller holds the admin role.
func (s *AccessService) IsAdmin(ctx context.Context, caller models.Caller) (bool, error) {
	role, err := s.CallerRole(ctx, caller)
	if err != nil {
		return false, err
	}
	switch role {
	case models.RoleAdmin:
		return true, nil
	case models.RoleUser, models.RoleGuest:
		return false, nil
	default:
		s.logger.Warn("unknown role in registry", zap.String("principal", caller.Principal), zap.String("role", string(role)))
		return false, nil
	}
}

// RequireIdentity rejects anonymous callers.
func (s *AccessService) RequireIdentity(caller models.Caller) error {
	if caller.Anonymous() {
		s.metrics.AuthorizationDenied("identity")
		return appErrors.Clone(appErrors.ErrUnauthenticated, "caller identity required")
	}
	return nil
}

// RequireAdmin admits admins only.
func (s *AccessService) RequireAdmin(ctx context.Context, caller models.Caller) error {
	ok, err := s.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		s.metrics.AuthorizationDenied("admin")
		return appErrors.Clone(appErrors.ErrUnauthorized, "admin role required")
	}
	return nil
}

// RequireSelfOrAdmin admits the target identity itself or an admin.
func (s *AccessService) RequireSelfOrAdmin(ctx context.Context, caller models.Caller, target string) error {
	if caller.Is(target) {
		return nil
	}
	ok, err := s.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		s.metrics.AuthorizationDenied("self_or_admin")
		return appErrors.Clone(appErrors.ErrUnauthorized, "can only access your own records")
	}
	return nil
}

// AssignRole sets the role of target. Only admins may assign roles.
func (s *AccessService) AssignRole(ctx context.Context, caller models.Caller, target string, role models.UserRole) error {
	if err := s.RequireAdmin(ctx, caller); err != nil {
		return err
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "target principal is required")
	}
	parsed, err := models.ParseUserRole(string(role))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, "unknown role")
	}

	actor := caller.Principal
	if err := s.repo.Upsert(ctx, &models.RoleAssignment{Principal: target, Role: parsed, AssignedBy: &actor}); err != nil {
		return appErrors.Internal(err, "failed to assign role")
	}
	s.logger.Info("role assigned", zap.String("principal", target), zap.String("role", string(parsed)), zap.String("by", actor))
	s.audit.Record(ctx, AuditEvent{
		Actor:      caller,
		Action:     models.AuditActionRoleAssign,
		Resource:   "role",
		ResourceID: target,
		Values:     map[string]string{"role": string(parsed)},
	})
	return nil
}

// Bootstrap provisions admins at start-up without a policy check. It must never be reachable
// from a request.
func (s *AccessService) Bootstrap(ctx context.Context, principals []string) error {
	for _, principal := range principals {
		principal = strings.TrimSpace(principal)
		if principal == "" {
			continue
		}
		if err := s.repo.Upsert(ctx, &models.RoleAssignment{Principal: principal, Role: models.RoleAdmin}); err != nil {
			return appErrors.Internal(err, "failed to bootstrap admin")
		}
		s.logger.Info("bootstrap admin provisioned", zap.String("principal", principal))
	}
	return nil
}
