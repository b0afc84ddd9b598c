package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type enrollmentFixture struct {
	svc      *EnrollmentService
	repo     *fakeEnrollmentRepo
	profiles *fakeProfileRepo
	audit    *recordingAudit
}

func newEnrollmentFixture(admins ...string) *enrollmentFixture {
	access := NewAccessService(newFakeRoleRepo(admins...), models.RoleGuest, nil, nil, nil)
	courses := NewCourseService(newFakeCourseRepo(sampleCatalog()...), nil, nil, nil)
	profileRepo := newFakeProfileRepo()
	profiles := NewProfileService(profileRepo, access, nil, nil)
	repo := &fakeEnrollmentRepo{}
	audit := &recordingAudit{}
	svc := NewEnrollmentService(repo, courses, profiles, access, audit, NewMetricsService(), nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return &enrollmentFixture{svc: svc, repo: repo, profiles: profileRepo, audit: audit}
}

func TestEnrollmentServiceSubmit(t *testing.T) {
	f := newEnrollmentFixture()
	f.profiles.profiles["asha"] = "Asha"
	ctx := context.Background()

	enrollment, err := f.svc.Submit(ctx, caller("asha"), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "asha", enrollment.Student)
	assert.Equal(t, int64(1), enrollment.CourseID)
	assert.Equal(t, 5, enrollment.GradeLevel)
	assert.Equal(t, "Asha", enrollment.StudentName)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), enrollment.EnrolledAt)
	assert.Equal(t, []string{models.AuditActionEnrollmentSubmit}, f.audit.actions())

	withoutProfile, err := f.svc.Submit(ctx, caller("ravi"), 2, 5)
	require.NoError(t, err)
	assert.Empty(t, withoutProfile.StudentName)
}

func TestEnrollmentServiceSubmitUnknownCourse(t *testing.T) {
	f := newEnrollmentFixture()

	_, err := f.svc.Submit(context.Background(), caller("asha"), 404, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, f.repo.records)
	assert.Empty(t, f.audit.actions())
}

func TestEnrollmentServiceSubmitGradeBounds(t *testing.T) {
	f := newEnrollmentFixture()
	ctx := context.Background()

	for _, grade := range []int{0, -1, 13} {
		_, err := f.svc.Submit(ctx, caller("asha"), 1, grade)
		assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument), "grade %d", grade)
	}
	assert.Empty(t, f.repo.records)

	_, err := f.svc.Submit(ctx, caller("asha"), 1, 1)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, caller("asha"), 2, 12)
	require.NoError(t, err)
}

func TestEnrollmentServiceSubmitRequiresIdentity(t *testing.T) {
	f := newEnrollmentFixture()

	_, err := f.svc.Submit(context.Background(), models.Caller{}, 1, 5)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
}

func TestEnrollmentServiceRejectsDuplicate(t *testing.T) {
	f := newEnrollmentFixture()
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, caller("asha"), 1, 5)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, caller("asha"), 1, 5)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Len(t, f.repo.records, 1)
}

func TestEnrollmentServiceConcurrentDuplicates(t *testing.T) {
	f := newEnrollmentFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Submit(ctx, caller("asha"), 3, 8)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, appErrors.ErrConflict))
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.repo.records, 1)
}

func TestEnrollmentServiceStatus(t *testing.T) {
	f := newEnrollmentFixture("root")
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		_, err := f.svc.Submit(ctx, caller("asha"), id, 5)
		require.NoError(t, err)
	}

	own, err := f.svc.Status(ctx, caller("asha"), "asha")
	require.NoError(t, err)
	require.Len(t, own, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{own[0].CourseID, own[1].CourseID, own[2].CourseID})

	viaAdmin, err := f.svc.Status(ctx, caller("root"), "asha")
	require.NoError(t, err)
	assert.Equal(t, own, viaAdmin)

	empty, err := f.svc.Status(ctx, caller("ravi"), "ravi")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = f.svc.Status(ctx, caller("ravi"), "asha")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestEnrollmentServiceListByCourse(t *testing.T) {
	f := newEnrollmentFixture("root")
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, caller("asha"), 1, 5)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, caller("ravi"), 1, 5)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, caller("ravi"), 2, 5)
	require.NoError(t, err)

	listed, err := f.svc.ListByCourse(ctx, caller("root"), 1)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "asha", listed[0].Student)
	assert.Equal(t, "ravi", listed[1].Student)

	for _, courseID := range []int64{1, 404, -1} {
		_, err = f.svc.ListByCourse(ctx, caller("asha"), courseID)
		assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	}
}
