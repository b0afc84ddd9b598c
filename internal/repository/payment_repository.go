package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

const paymentColumns = `id, student, payment_type, amount, status, payment_date, settled_at`

// PaymentRepository persists the payment ledger.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment and assigns its sequence id.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now().UTC()
	}
	const query = `INSERT INTO payments (student, payment_type, amount, status, payment_date)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		payment.Student, payment.PaymentType, payment.Amount, payment.Status, payment.PaymentDate,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindByStudentAndID returns the payment only when it belongs to the student, else sql.ErrNoRows.
func (r *PaymentRepository) FindByStudentAndID(ctx context.Context, student string, id int64) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND student = $2`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id, student); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByStudent returns the student's payments in creation order.
func (r *PaymentRepository) ListByStudent(ctx context.Context, student string) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE student = $1 ORDER BY id ASC`
	payments := make([]models.Payment, 0)
	if err := r.db.SelectContext(ctx, &payments, query, student); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// Settle moves a pending payment to a terminal status in a single statement. It returns
// sql.ErrNoRows when no pending payment with that id belongs to the student.
func (r *PaymentRepository) Settle(ctx context.Context, student string, id int64, status models.PaymentStatus, at time.Time) (*models.Payment, error) {
	query := `UPDATE payments SET status = $3, settled_at = $4
WHERE id = $1 AND student = $2 AND status = $5
RETURNING ` + paymentColumns
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id, student, status, at, models.PaymentStatusPending); err != nil {
		return nil, err
	}
	return &payment, nil
}
