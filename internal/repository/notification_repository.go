package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tutorly/tutor-api/internal/models"
)

// NotificationRepository reads reminder rows written by an external
// scheduled job. The core never inserts or deletes notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListRecent returns the newest sent notifications for a teacher,
// capped at limit, with student and lesson context.
func (r *NotificationRepository) ListRecent(ctx context.Context, teacherID string, limit int) ([]models.NotificationDetail, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `SELECT n.id, n.teacher_id, n.student_id, n.lesson_id, n.type, n.read, n.sent, n.created_at,
        s.full_name AS student_name,
        l.subject AS lesson_subject, l.start_time AS lesson_start_time, l.day_of_week AS lesson_day_of_week
        FROM notifications n
        JOIN students s ON s.id = n.student_id
        JOIN lessons l ON l.id = n.lesson_id
        WHERE n.teacher_id = $1 AND n.sent = true
        ORDER BY n.created_at DESC
        LIMIT $2`
	notifications := []models.NotificationDetail{}
	if err := r.db.SelectContext(ctx, &notifications, query, teacherID, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips the read flag on a single notification scoped to its
// teacher. Re-marking an already-read row is a no-op.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, teacherID string) error {
	const query = `UPDATE notifications SET read = true WHERE id = $1 AND teacher_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, teacherID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// UnreadCount counts unread sent notifications for a teacher.
func (r *NotificationRepository) UnreadCount(ctx context.Context, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE teacher_id = $1 AND sent = true AND read = false`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
