package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

const (
	catalogCacheKey     = "catalog:courses"
	catalogCachePattern = "catalog:*"
)

type courseRepository interface {
	ListAll(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Exists(ctx context.Context, id int64) (bool, error)
	InsertMissing(ctx context.Context, courses []models.Course) (int, error)
}

// CourseService exposes the read-only course catalog.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the catalog service. cache may be nil.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// All returns the full catalog ordered by id.
func (s *CourseService) All(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if hit, _ := s.cache.Get(ctx, catalogCacheKey, &courses); hit {
		return courses, nil
	}
	courses, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load catalog")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	_ = s.cache.Set(ctx, catalogCacheKey, courses, 0)
	return courses, nil
}

// ByID returns the course with the given id. The boolean is false when it does not exist.
func (s *CourseService) ByID(ctx context.Context, id int64) (*models.Course, bool, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, appErrors.Internal(err, "failed to load course")
	}
	return course, true, nil
}

// List returns the catalog entries matching every constrained field of filter, in catalog order.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	courses, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Empty() {
		return courses, nil
	}
	matched := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if filter.Matches(course) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

// Subjects returns the distinct subjects of the catalog in first-seen order.
func (s *CourseService) Subjects(ctx context.Context) ([]string, error) {
	courses, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(courses))
	subjects := make([]string, 0)
	for _, course := range courses {
		if _, ok := seen[course.Subject]; ok {
			continue
		}
		seen[course.Subject] = struct{}{}
		subjects = append(subjects, course.Subject)
	}
	return subjects, nil
}

// Exists reports whether a course id is in the catalog.
func (s *CourseService) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, appErrors.Internal(err, "failed to check course")
	}
	return ok, nil
}

// Seed installs the given courses. Ids already present are left untouched.
func (s *CourseService) Seed(ctx context.Context, courses []models.Course) (int, error) {
	ids := make(map[int64]struct{}, len(courses))
	for i := range courses {
		if err := s.validator.Struct(courses[i]); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, fmt.Sprintf("invalid course %d", courses[i].ID))
		}
		if _, dup := ids[courses[i].ID]; dup {
			return 0, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("duplicate course id %d", courses[i].ID))
		}
		ids[courses[i].ID] = struct{}{}
	}

	inserted, err := s.repo.InsertMissing(ctx, courses)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to seed catalog")
	}
	if inserted > 0 {
		_ = s.cache.Invalidate(ctx, catalogCachePattern)
	}
	s.logger.Info("catalog seeded", zap.Int("provided", len(courses)), zap.Int("inserted", inserted))
	return inserted, nil
}
