package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorly/tutor-api/internal/models"
)

// PaymentRepository manages persistence for payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByTeacher returns payments for all of the teacher's students,
// joined with student context.
func (r *PaymentRepository) ListByTeacher(ctx context.Context, teacherID string, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	conditions := []string{"s.teacher_id = $1"}
	args := []interface{}{teacherID}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(s.full_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	allowedSorts := map[string]string{
		"payment_date": "p.payment_date",
		"amount":       "p.amount",
		"created_at":   "p.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "p.payment_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	query := fmt.Sprintf(`SELECT p.id, p.student_id, p.amount, p.payment_date, p.payment_method, p.status, p.description, p.created_at, p.updated_at,
        s.full_name AS student_name, s.grade AS student_grade
        FROM payments p
        JOIN students s ON s.id = p.student_id
        WHERE %s ORDER BY %s %s`, strings.Join(conditions, " AND "), column, order)

	payments := []models.PaymentDetail{}
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// ListByTeacherInRange returns the teacher's payments dated within
// [from, to). The upper bound is exclusive so a range ending at the
// next period's first instant never leaks a neighbour's rows.
func (r *PaymentRepository) ListByTeacherInRange(ctx context.Context, teacherID string, from, to time.Time) ([]models.Payment, error) {
	const query = `SELECT p.id, p.student_id, p.amount, p.payment_date, p.payment_method, p.status, p.description, p.created_at, p.updated_at
        FROM payments p
        JOIN students s ON s.id = p.student_id
        WHERE s.teacher_id = $1 AND p.payment_date >= $2 AND p.payment_date < $3
        ORDER BY p.payment_date ASC`
	payments := []models.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, teacherID, from, to); err != nil {
		return nil, fmt.Errorf("list payments in range: %w", err)
	}
	return payments, nil
}

// FindByID fetches a payment by ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	const query = `SELECT id, student_id, amount, payment_date, payment_method, status, description, created_at, updated_at
        FROM payments WHERE id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create inserts a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now
	const query = `INSERT INTO payments (id, student_id, amount, payment_date, payment_method, status, description, created_at, updated_at)
        VALUES (:id, :student_id, :amount, :payment_date, :payment_method, :status, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update modifies an existing payment.
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE payments SET amount = :amount, payment_date = :payment_date, payment_method = :payment_method, status = :status, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// Delete removes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM payments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
