package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "student_id", "lesson_id", "type", "read", "sent", "created_at", "student_name", "lesson_subject", "lesson_start_time", "lesson_day_of_week"}).
		AddRow("n1", "t1", "s1", "l1", "1_hour", false, true, time.Now(), "Ada", "math", "10:00", "monday")
	mock.ExpectQuery("SELECT n.id, n.teacher_id").WithArgs("t1", 10).WillReturnRows(rows)

	notifications, err := repo.ListRecent(context.Background(), "t1", 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Ada", notifications[0].StudentName)
	assert.Equal(t, "1_hour", notifications[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryListRecentDefaultsLimit(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery("SELECT n.id, n.teacher_id").
		WithArgs("t1", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "student_id", "lesson_id", "type", "read", "sent", "created_at", "student_name", "lesson_subject", "lesson_start_time", "lesson_day_of_week"}))

	_, err := repo.ListRecent(context.Background(), "t1", 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkRead(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET read").
		WithArgs("n1", "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkRead(context.Background(), "n1", "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryUnreadCount(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.UnreadCount(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
