package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/repository"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Exists(ctx context.Context, student string, courseID int64) (bool, error)
	ListByStudent(ctx context.Context, student string) ([]models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Enrollment, error)
}

type courseChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type displayNameResolver interface {
	DisplayName(ctx context.Context, principal string) (string, error)
}

// EnrollmentService is the append-only enrollment ledger.
type EnrollmentService struct {
	repo    enrollmentRepository
	courses courseChecker
	names   displayNameResolver
	access  accessPolicy
	audit   AuditRecorder
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseChecker, names displayNameResolver, access accessPolicy, audit AuditRecorder, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if audit == nil {
		audit = nopAuditRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:    repo,
		courses: courses,
		names:   names,
		access:  access,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit appends an enrollment of the caller in courseID.
func (s *EnrollmentService) Submit(ctx context.Context, caller models.Caller, courseID int64, gradeLevel int) (*models.Enrollment, error) {
	if err := s.access.RequireIdentity(caller); err != nil {
		return nil, err
	}
	exists, err := s.courses.Exists(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %d not found", courseID))
	}
	if gradeLevel < models.MinGradeLevel || gradeLevel > models.MaxGradeLevel {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("grade level must be between %d and %d", models.MinGradeLevel, models.MaxGradeLevel))
	}
	duplicate, err := s.repo.Exists(ctx, caller.Principal, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
	}

	name, err := s.names.DisplayName(ctx, caller.Principal)
	if err != nil {
		return nil, err
	}
	enrollment := &models.Enrollment{
		Student:     caller.Principal,
		CourseID:    courseID,
		GradeLevel:  gradeLevel,
		StudentName: name,
		EnrolledAt:  s.now(),
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
		}
		return nil, appErrors.Internal(err, "failed to submit enrollment")
	}

	s.metrics.EnrollmentSubmitted()
	s.logger.Info("enrollment submitted", zap.String("student", caller.Principal), zap.Int64("course_id", courseID))
	s.audit.Record(ctx, AuditEvent{
		Actor:      caller,
		Action:     models.AuditActionEnrollmentSubmit,
		Resource:   "enrollment",
		ResourceID: strconv.FormatInt(enrollment.ID, 10),
		Values:     enrollment,
	})
	return enrollment, nil
}

// Status returns every enrollment of student in insertion order.
func (s *EnrollmentService) Status(ctx context.Context, caller models.Caller, student string) ([]models.Enrollment, error) {
	if err := s.access.RequireSelfOrAdmin(ctx, caller, student); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.ListByStudent(ctx, student)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list enrollments")
	}
	return nonNilEnrollments(enrollments), nil
}

// ListByCourse returns every enrollment referencing courseID across all students.
func (s *EnrollmentService) ListByCourse(ctx context.Context, caller models.Caller, courseID int64) ([]models.Enrollment, error) {
	if err := s.access.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list course enrollments")
	}
	return nonNilEnrollments(enrollments), nil
}

func nonNilEnrollments(items []models.Enrollment) []models.Enrollment {
	if items == nil {
		return []models.Enrollment{}
	}
	return items
}
