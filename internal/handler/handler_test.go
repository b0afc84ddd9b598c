package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/middleware"
	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// newTestContext builds a gin context for a handler call. principal may be empty for an
// anonymous caller.
func newTestContext(method, target, body, principal string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Params = params
	if principal != "" {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{Principal: principal})
	}
	return c, w
}

type memoryRoles struct {
	roles map[string]models.UserRole
}

func (m *memoryRoles) FindByPrincipal(ctx context.Context, principal string) (*models.RoleAssignment, error) {
	role, ok := m.roles[principal]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.RoleAssignment{Principal: principal, Role: role}, nil
}

func (m *memoryRoles) Upsert(ctx context.Context, assignment *models.RoleAssignment) error {
	m.roles[assignment.Principal] = assignment.Role
	return nil
}

func newAccess(admins ...string) (*service.AccessService, *memoryRoles) {
	roles := &memoryRoles{roles: map[string]models.UserRole{}}
	for _, admin := range admins {
		roles.roles[admin] = models.RoleAdmin
	}
	return service.NewAccessService(roles, models.RoleGuest, nil, nil, nil), roles
}
