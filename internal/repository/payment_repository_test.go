package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorly/tutor-api/internal/models"
)

func TestPaymentRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "amount", "payment_date", "payment_method", "status", "description", "created_at", "updated_at", "student_name", "student_grade"}).
		AddRow("p1", "s1", 150.0, time.Now(), models.PaymentMethodCash, models.PaymentStatusCompleted, nil, time.Now(), time.Now(), "Ada", "9")
	mock.ExpectQuery("SELECT p.id, p.student_id").WithArgs("t1").WillReturnRows(rows)

	payments, err := repo.ListByTeacher(context.Background(), "t1", models.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Ada", payments[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListByTeacherWithFilter(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "amount", "payment_date", "payment_method", "status", "description", "created_at", "updated_at", "student_name", "student_grade"})
	mock.ExpectQuery(`p.status = \$2 AND LOWER\(s.full_name\) LIKE \$3`).
		WithArgs("t1", models.PaymentStatusPending, "%ada%").
		WillReturnRows(rows)

	_, err := repo.ListByTeacher(context.Background(), "t1", models.PaymentFilter{Status: models.PaymentStatusPending, Search: "Ada"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListByTeacherInRange(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "amount", "payment_date", "payment_method", "status", "description", "created_at", "updated_at"}).
		AddRow("p1", "s1", 500.0, from.AddDate(0, 0, 4), models.PaymentMethodBankTransfer, models.PaymentStatusCompleted, nil, time.Now(), time.Now())
	mock.ExpectQuery(`p.payment_date >= \$2 AND p.payment_date < \$3`).
		WithArgs("t1", from, to).
		WillReturnRows(rows)

	payments, err := repo.ListByTeacherInRange(context.Background(), "t1", from, to)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, float64(500), payments[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	payment := &models.Payment{StudentID: "s1", Amount: 150, PaymentDate: time.Now(), PaymentMethod: models.PaymentMethodCash, Status: models.PaymentStatusPending}
	require.NoError(t, repo.Create(context.Background(), payment))
	assert.NotEmpty(t, payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectExec("UPDATE payments SET").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payment := &models.Payment{ID: "p1", Amount: 175, PaymentDate: time.Now(), PaymentMethod: models.PaymentMethodCash, Status: models.PaymentStatusCompleted}
	require.NoError(t, repo.Update(context.Background(), payment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectExec("DELETE FROM payments").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
