package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByStudentAndID(ctx context.Context, student string, id int64) (*models.Payment, error)
	ListByStudent(ctx context.Context, student string) ([]models.Payment, error)
	Settle(ctx context.Context, student string, id int64, status models.PaymentStatus, at time.Time) (*models.Payment, error)
}

type feeSchedule interface {
	Current() models.FeeStructure
	AmountFor(paymentType models.PaymentType) (int64, error)
}

// PaymentService is the payment ledger. Every record starts pending and settles exactly once.
type PaymentService struct {
	repo    paymentRepository
	fees    feeSchedule
	access  accessPolicy
	audit   AuditRecorder
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(repo paymentRepository, fees feeSchedule, access accessPolicy, audit AuditRecorder, metrics *MetricsService, logger *zap.Logger) *PaymentService {
	if audit == nil {
		audit = nopAuditRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		repo:    repo,
		fees:    fees,
		access:  access,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// FeeStructure returns the configured fees.
func (s *PaymentService) FeeStructure() models.FeeStructure {
	return s.fees.Current()
}

// Initiate opens a pending payment for the caller and returns it. The amount is fixed now.
func (s *PaymentService) Initiate(ctx context.Context, caller models.Caller, paymentType models.PaymentType) (*models.Payment, error) {
	if err := s.access.RequireIdentity(caller); err != nil {
		return nil, err
	}
	amount, err := s.fees.AmountFor(paymentType)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		Student:     caller.Principal,
		PaymentType: paymentType,
		Amount:      amount,
		Status:      models.PaymentStatusPending,
		PaymentDate: s.now(),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Internal(err, "failed to initiate payment")
	}

	s.metrics.PaymentInitiated(paymentType)
	s.logger.Info("payment initiated",
		zap.String("student", caller.Principal),
		zap.Int64("payment_id", payment.ID),
		zap.String("type", string(paymentType)),
		zap.Int64("amount", amount),
	)
	s.audit.Record(ctx, AuditEvent{
		Actor:      caller,
		Action:     models.AuditActionPaymentInitiate,
		Resource:   "payment",
		ResourceID: strconv.FormatInt(payment.ID, 10),
		Values:     payment,
	})
	return payment, nil
}

// RecordCompletion settles a pending payment of student as completed or failed.
func (s *PaymentService) RecordCompletion(ctx context.Context, caller models.Caller, student string, id int64, success bool) (*models.Payment, error) {
	if err := s.access.RequireSelfOrAdmin(ctx, caller, student); err != nil {
		return nil, err
	}
	status := models.SettlementStatus(success)

	payment, err := s.repo.Settle(ctx, student, id, status, s.now())
	if err == nil {
		s.metrics.PaymentSettled(status)
		s.logger.Info("payment settled", zap.String("student", student), zap.Int64("payment_id", id), zap.String("status", string(status)))
		s.audit.Record(ctx, AuditEvent{
			Actor:      caller,
			Action:     models.AuditActionPaymentSettle,
			Resource:   "payment",
			ResourceID: strconv.FormatInt(id, 10),
			Values:     map[string]string{"status": string(status)},
		})
		return payment, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to record payment completion")
	}

	// nothing pending matched: tell a missing record apart from a settled one
	current, err := s.repo.FindByStudentAndID(ctx, student, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("payment %d not found", id))
		}
		return nil, appErrors.Internal(err, "failed to load payment")
	}
	if !current.Status.Terminal() {
		return nil, appErrors.Internal(fmt.Errorf("payment %d is %s but was not settled", id, current.Status), "failed to record payment completion")
	}
	return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("payment %d is already %s", id, current.Status))
}

// Status returns the current status of a payment. The boolean is false when the id is unknown
// for student.
func (s *PaymentService) Status(ctx context.Context, caller models.Caller, student string, id int64) (models.PaymentStatus, bool, error) {
	if err := s.access.RequireSelfOrAdmin(ctx, caller, student); err != nil {
		return "", false, err
	}
	payment, err := s.repo.FindByStudentAndID(ctx, student, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, appErrors.Internal(err, "failed to load payment")
	}
	return payment.Status, true, nil
}

// History returns every payment of student in creation order.
func (s *PaymentService) History(ctx context.Context, caller models.Caller, student string) ([]models.Payment, error) {
	if err := s.access.RequireSelfOrAdmin(ctx, caller, student); err != nil {
		return nil, err
	}
	payments, err := s.repo.ListByStudent(ctx, student)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list payments")
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}
