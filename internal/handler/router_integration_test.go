package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type memoryStore struct {
	mu          sync.Mutex
	courses     []models.Course
	profiles    map[string]string
	enrollments []models.Enrollment
	payments    []models.Payment
}

type memoryCourses struct{ *memoryStore }

func (m memoryCourses) ListAll(ctx context.Context) ([]models.Course, error) {
	return append([]models.Course(nil), m.courses...), nil
}

func (m memoryCourses) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m memoryCourses) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := m.FindByID(ctx, id)
	return err == nil, nil
}

func (m memoryCourses) InsertMissing(ctx context.Context, courses []models.Course) (int, error) {
	m.courses = append(m.courses, courses...)
	return len(courses), nil
}

type memoryProfiles struct{ *memoryStore }

func (m memoryProfiles) FindByPrincipal(ctx context.Context, principal string) (*models.StoredProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.profiles[principal]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.StoredProfile{Principal: principal, Name: name}, nil
}

func (m memoryProfiles) Upsert(ctx context.Context, profile *models.StoredProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.Principal] = profile.Name
	return nil
}

type memoryEnrollments struct{ *memoryStore }

func (m memoryEnrollments) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	enrollment.ID = int64(len(m.enrollments) + 1)
	m.enrollments = append(m.enrollments, *enrollment)
	return nil
}

func (m memoryEnrollments) Exists(ctx context.Context, student string, courseID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.Student == student && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m memoryEnrollments) ListByStudent(ctx context.Context, student string) ([]models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Enrollment
	for _, e := range m.enrollments {
		if e.Student == student {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m memoryEnrollments) ListByCourse(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Enrollment
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memoryPayments struct{ *memoryStore }

func (m memoryPayments) Create(ctx context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment.ID = int64(len(m.payments) + 1)
	m.payments = append(m.payments, *payment)
	return nil
}

func (m memoryPayments) FindByStudentAndID(ctx context.Context, student string, id int64) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ID == id && p.Student == student {
			payment := p
			return &payment, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m memoryPayments) ListByStudent(ctx context.Context, student string) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Payment
	for _, p := range m.payments {
		if p.Student == student {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memoryPayments) Settle(ctx context.Context, student string, id int64, status models.PaymentStatus, at time.Time) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		p := &m.payments[i]
		if p.ID == id && p.Student == student && p.Status == models.PaymentStatusPending {
			p.Status = status
			p.SettledAt = &at
			payment := *p
			return &payment, nil
		}
	}
	return nil, sql.ErrNoRows
}

type testServer struct {
	router *gin.Engine
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memoryStore{
		courses: []models.Course{
			{ID: 1, Title: "Numbers", Subject: "Mathematics", GradeLevel: 5, Difficulty: "Easy"},
			{ID: 2, Title: "Plants", Subject: "Science", GradeLevel: 6, Difficulty: "Medium"},
		},
		profiles: map[string]string{},
	}
	auth := service.NewAuthService(service.AuthConfig{Secret: "integration", Issuer: "edu-portal-api"})
	access, _ := newAccess("root")
	courses := service.NewCourseService(memoryCourses{store}, nil, nil, nil)
	profiles := service.NewProfileService(memoryProfiles{store}, access, nil, nil)
	enrollments := service.NewEnrollmentService(memoryEnrollments{store}, courses, profiles, access, nil, nil, nil)
	fees := service.NewFeeService(models.FeeStructure{MonthlyFee: 500, AnnualFee: 4800})
	payments := service.NewPaymentService(memoryPayments{store}, fees, access, nil, nil, nil)
	exports := service.NewExportService(payments, nil, nil, nil)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Routes{
		Auth:        auth,
		Access:      access,
		Courses:     NewCourseHandler(courses),
		Fees:        NewFeeHandler(fees),
		Roles:       NewRoleHandler(access),
		Profiles:    NewProfileHandler(profiles),
		Enrollments: NewEnrollmentHandler(enrollments),
		Payments:    NewPaymentHandler(payments, exports),
	})
	return &testServer{router: router, auth: auth}
}

func (s *testServer) do(t *testing.T, method, path, principal, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(method, "/api/v1"+path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != "" {
		token, _, err := s.auth.IssueToken(principal, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestRouterPublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/courses?grade=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Numbers"`)
	assert.NotContains(t, w.Body.String(), `"Plants"`)

	w = srv.do(t, http.MethodGet, "/courses/subjects", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Mathematics","Science"]`, string(decodeEnvelope(t, w).Data))

	w = srv.do(t, http.MethodGet, "/fees", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"monthlyFee":500,"annualFee":4800}`, string(decodeEnvelope(t, w).Data))

	w = srv.do(t, http.MethodGet, "/me/role", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"guest"}`, string(decodeEnvelope(t, w).Data))
}

func TestRouterRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me/profile"},
		{http.MethodPost, "/enrollments"},
		{http.MethodPost, "/payments"},
		{http.MethodGet, "/students/asha/payments"},
		{http.MethodPut, "/roles/asha"},
	} {
		w := srv.do(t, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestRouterPolicyBeforeValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "assign role valid", method: http.MethodPut, path: "/roles/asha", body: `{"role":"admin"}`},
		{name: "assign role invalid payload", method: http.MethodPut, path: "/roles/asha", body: `{"role":`},
		{name: "course enrollments", method: http.MethodGet, path: "/courses/1/enrollments"},
		{name: "course enrollments bad id", method: http.MethodGet, path: "/courses/abc/enrollments"},
		{name: "other student payments", method: http.MethodGet, path: "/students/ravi/payments"},
		{name: "other student bad payment id", method: http.MethodGet, path: "/students/ravi/payments/abc/status"},
		{name: "other student completion", method: http.MethodPost, path: "/students/ravi/payments/999/completion", body: `{"success":true}`},
		{name: "other profile", method: http.MethodGet, path: "/profiles/ravi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := srv.do(t, tc.method, tc.path, "asha", tc.body)
			require.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, decodeEnvelope(t, w).Error.Code)
		})
	}
}

func TestRouterEnrollmentAndPaymentFlow(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPut, "/me/profile", "asha", `{"name":"Asha"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, "/enrollments", "asha", `{"courseId":1,"gradeLevel":5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"studentName":"Asha"`)

	w = srv.do(t, http.MethodPost, "/enrollments", "asha", `{"courseId":42,"gradeLevel":5}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, "/students/asha/enrollments", "asha", "")
	require.Equal(t, http.StatusOK, w.Code)
	var enrollments []models.Enrollment
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &enrollments))
	require.Len(t, enrollments, 1)

	w = srv.do(t, http.MethodGet, "/courses/1/enrollments", "root", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"student":"asha"`)

	w = srv.do(t, http.MethodPost, "/payments", "asha", `{"paymentType":"monthly"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID     int64  `json:"id"`
		Amount int64  `json:"amount"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	assert.Equal(t, int64(500), created.Amount)
	assert.Equal(t, "pending", created.Status)

	w = srv.do(t, http.MethodGet, "/students/asha/payments/1/status", "asha", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)

	w = srv.do(t, http.MethodPost, "/students/asha/payments/1/completion", "asha", `{"success":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/students/asha/payments/1/status", "root", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)

	w = srv.do(t, http.MethodPost, "/students/asha/payments/1/completion", "asha", `{"success":true}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrInvalidState.Code, decodeEnvelope(t, w).Error.Code)

	w = srv.do(t, http.MethodGet, "/students/asha/payments/export?format=csv", "asha", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1,monthly,500,completed")
}
