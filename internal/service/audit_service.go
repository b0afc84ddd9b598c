package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/pkg/jobs"
)

const auditJobType = "audit_log"

type auditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditRecorder accepts audit events after a mutation has committed.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent)
}

// AuditEvent describes a committed mutation.
type AuditEvent struct {
	Actor      models.Caller
	Action     string
	Resource   string
	ResourceID string
	Values     interface{}
}

type requestMetaKey struct{}

// RequestMeta carries transport details that are copied into audit records.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// WithRequestMeta attaches request metadata to ctx.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func requestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// AuditService writes the audit trail asynchronously on a worker queue. Storage failures never
// reach the ledger call that produced the event.
type AuditService struct {
	repo   auditRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// AuditConfig sizes the audit queue.
type AuditConfig struct {
	Workers    int
	Retries    int
	BufferSize int
}

// NewAuditService constructs the service; call Start before recording.
func NewAuditService(repo auditRepository, cfg AuditConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("audit", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.Retries,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logger,
	})
	return s
}

// Start launches the audit workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes buffered events and stops the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues an event. Failures are logged and otherwise ignored.
func (s *AuditService) Record(ctx context.Context, event AuditEvent) {
	entry, err := s.buildEntry(ctx, event)
	if err != nil {
		s.logger.Warn("audit event dropped", zap.String("action", event.Action), zap.Error(err))
		return
	}
	if err := s.queue.Enqueue(jobs.Job{Type: auditJobType, Payload: entry}); err != nil {
		s.logger.Warn("audit event dropped", zap.String("action", event.Action), zap.Error(err))
	}
}

func (s *AuditService) buildEntry(ctx context.Context, event AuditEvent) (*models.AuditLog, error) {
	meta := requestMetaFrom(ctx)
	entry := &models.AuditLog{
		Action:    event.Action,
		Resource:  event.Resource,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	if !event.Actor.Anonymous() {
		principal := event.Actor.Principal
		entry.Principal = &principal
	}
	if event.ResourceID != "" {
		id := event.ResourceID
		entry.ResourceID = &id
	}
	if event.Values != nil {
		raw, err := json.Marshal(event.Values)
		if err != nil {
			return nil, fmt.Errorf("marshal audit values: %w", err)
		}
		entry.NewValues = raw
	}
	return entry, nil
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.CreateAuditLog(ctx, entry)
}

type nopAuditRecorder struct{}

func (nopAuditRecorder) Record(context.Context, AuditEvent) {}
