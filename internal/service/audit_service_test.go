package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

type memoryAuditRepo struct {
	mu    sync.Mutex
	logs  []*models.AuditLog
	fails int
}

func (m *memoryAuditRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails > 0 {
		m.fails--
		return errors.New("temporary failure")
	}
	m.logs = append(m.logs, log)
	return nil
}

func TestAuditServiceRecordsEvents(t *testing.T) {
	repo := &memoryAuditRepo{}
	svc := NewAuditService(repo, AuditConfig{Workers: 2, BufferSize: 8}, nil)
	svc.Start(context.Background())

	ctx := WithRequestMeta(context.Background(), RequestMeta{IP: "10.0.0.1", UserAgent: "test"})
	svc.Record(ctx, AuditEvent{
		Actor:      caller("root"),
		Action:     models.AuditActionRoleAssign,
		Resource:   "role",
		ResourceID: "asha",
		Values:     map[string]string{"role": "admin"},
	})
	svc.Record(context.Background(), AuditEvent{Action: models.AuditActionProfileSave, Resource: "profile"})
	svc.Stop()

	require.Len(t, repo.logs, 2)
	var assigned *models.AuditLog
	for _, log := range repo.logs {
		if log.Action == models.AuditActionRoleAssign {
			assigned = log
		}
	}
	require.NotNil(t, assigned)
	require.NotNil(t, assigned.Principal)
	assert.Equal(t, "root", *assigned.Principal)
	require.NotNil(t, assigned.ResourceID)
	assert.Equal(t, "asha", *assigned.ResourceID)
	assert.Equal(t, "10.0.0.1", assigned.IPAddress)
	assert.Equal(t, "test", assigned.UserAgent)

	var values map[string]string
	require.NoError(t, json.Unmarshal(assigned.NewValues, &values))
	assert.Equal(t, "admin", values["role"])
}

func TestAuditServiceDropsUnserializableValues(t *testing.T) {
	repo := &memoryAuditRepo{}
	svc := NewAuditService(repo, AuditConfig{}, nil)
	svc.Start(context.Background())

	svc.Record(context.Background(), AuditEvent{Action: models.AuditActionPaymentSettle, Values: make(chan int)})
	svc.Stop()

	assert.Empty(t, repo.logs)
}
