package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/repository"
)

type fakeRoleRepo struct {
	roles   map[string]models.UserRole
	findErr error
}

func newFakeRoleRepo(admins ...string) *fakeRoleRepo {
	repo := &fakeRoleRepo{roles: map[string]models.UserRole{}}
	for _, admin := range admins {
		repo.roles[admin] = models.RoleAdmin
	}
	return repo
}

func (f *fakeRoleRepo) FindByPrincipal(ctx context.Context, principal string) (*models.RoleAssignment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	role, ok := f.roles[principal]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.RoleAssignment{Principal: principal, Role: role}, nil
}

func (f *fakeRoleRepo) Upsert(ctx context.Context, assignment *models.RoleAssignment) error {
	f.roles[assignment.Principal] = assignment.Role
	return nil
}

type fakeCourseRepo struct {
	courses   map[int64]models.Course
	listCalls int
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: map[int64]models.Course{}}
	for _, c := range courses {
		repo.courses[c.ID] = c
	}
	return repo
}

func (f *fakeCourseRepo) ListAll(ctx context.Context) ([]models.Course, error) {
	f.listCalls++
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCourseRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := f.courses[id]
	return ok, nil
}

func (f *fakeCourseRepo) InsertMissing(ctx context.Context, courses []models.Course) (int, error) {
	inserted := 0
	for _, c := range courses {
		if _, ok := f.courses[c.ID]; ok {
			continue
		}
		f.courses[c.ID] = c
		inserted++
	}
	return inserted, nil
}

type fakeProfileRepo struct {
	profiles map[string]string
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]string{}}
}

func (f *fakeProfileRepo) FindByPrincipal(ctx context.Context, principal string) (*models.StoredProfile, error) {
	name, ok := f.profiles[principal]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.StoredProfile{Principal: principal, Name: name}, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *models.StoredProfile) error {
	f.profiles[profile.Principal] = profile.Name
	return nil
}

type fakeEnrollmentRepo struct {
	mu      sync.Mutex
	records []models.Enrollment
	nextID  int64
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Student == enrollment.Student && r.CourseID == enrollment.CourseID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	enrollment.ID = f.nextID
	f.records = append(f.records, *enrollment)
	return nil
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, student string, courseID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Student == student && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentRepo) ListByStudent(ctx context.Context, student string) ([]models.Enrollment, error) {
	return f.filter(func(r models.Enrollment) bool { return r.Student == student }), nil
}

func (f *fakeEnrollmentRepo) ListByCourse(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	return f.filter(func(r models.Enrollment) bool { return r.CourseID == courseID }), nil
}

func (f *fakeEnrollmentRepo) filter(keep func(models.Enrollment) bool) []models.Enrollment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Enrollment
	for _, r := range f.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*models.Payment
	nextID   int64
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	payment.ID = f.nextID
	stored := *payment
	f.payments = append(f.payments, &stored)
	return nil
}

func (f *fakePaymentRepo) FindByStudentAndID(ctx context.Context, student string, id int64) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ID == id && p.Student == student {
			out := *p
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePaymentRepo) ListByStudent(ctx context.Context, student string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.Student == student {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Settle(ctx context.Context, student string, id int64, status models.PaymentStatus, at time.Time) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ID == id && p.Student == student && p.Status == models.PaymentStatusPending {
			p.Status = status
			settled := at
			p.SettledAt = &settled
			out := *p
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

type recordingAudit struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (r *recordingAudit) Record(ctx context.Context, event AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

func caller(principal string) models.Caller {
	return models.Caller{Principal: principal}
}
