package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorly/tutor-api/internal/models"
)

// LessonRepository manages persistence for lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// ListByTeacher returns the teacher's lessons joined with student names,
// ordered by start time ascending.
func (r *LessonRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error) {
	const query = `SELECT l.id, l.student_id, l.subject, l.day_of_week, l.start_time, l.price_per_hour,
        l.status, l.postponed_to, l.postpone_reason, l.created_at, l.updated_at,
        s.full_name AS student_name
        FROM lessons l
        JOIN students s ON s.id = l.student_id
        WHERE s.teacher_id = $1
        ORDER BY l.start_time ASC`
	lessons := []models.LessonDetail{}
	if err := r.db.SelectContext(ctx, &lessons, query, teacherID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// ListByStudent returns one student's lessons, newest start time first.
func (r *LessonRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Lesson, error) {
	const query = `SELECT id, student_id, subject, day_of_week, start_time, price_per_hour,
        status, postponed_to, postpone_reason, created_at, updated_at
        FROM lessons WHERE student_id = $1 ORDER BY start_time DESC`
	lessons := []models.Lesson{}
	if err := r.db.SelectContext(ctx, &lessons, query, studentID); err != nil {
		return nil, fmt.Errorf("list student lessons: %w", err)
	}
	return lessons, nil
}

// FindByID fetches a lesson by ID.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	const query = `SELECT id, student_id, subject, day_of_week, start_time, price_per_hour,
        status, postponed_to, postpone_reason, created_at, updated_at
        FROM lessons WHERE id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create inserts a new lesson in the scheduled state.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now
	const query = `INSERT INTO lessons (id, student_id, subject, day_of_week, start_time, price_per_hour, status, postponed_to, postpone_reason, created_at, updated_at)
        VALUES (:id, :student_id, :subject, :day_of_week, :start_time, :price_per_hour, :status, :postponed_to, :postpone_reason, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// UpdateStatus applies a lifecycle transition. Postponed fields are
// written as given; completing a lesson leaves them untouched.
func (r *LessonRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	const query = `UPDATE lessons SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update lesson status: %w", err)
	}
	return nil
}

// Postpone marks the lesson postponed recording the new time and reason.
func (r *LessonRepository) Postpone(ctx context.Context, id string, postponedTo time.Time, reason string) error {
	const query = `UPDATE lessons SET status = $2, postponed_to = $3, postpone_reason = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.LessonStatusPostponed, postponedTo, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("postpone lesson: %w", err)
	}
	return nil
}

// Delete removes a lesson unconditionally.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM lessons WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}

// DeleteByStudent removes all lessons of a student. Safe to retry; zero
// affected rows is not an error.
func (r *LessonRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	const query = `DELETE FROM lessons WHERE student_id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID); err != nil {
		return fmt.Errorf("delete student lessons: %w", err)
	}
	return nil
}
