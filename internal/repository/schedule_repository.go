package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tutorly/tutor-api/internal/models"
)

// ScheduleRepository manages the weekly timetable and the per-teacher
// time-slot configuration.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByTeacher returns the teacher's schedule entries ordered by slot.
func (r *ScheduleRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleEntryDetail, error) {
	const query = `SELECT e.id, e.teacher_id, e.student_id, e.subject, e.day_of_week, e.time_slot, e.created_at,
        s.full_name AS student_name
        FROM schedule_entries e
        JOIN students s ON s.id = e.student_id
        WHERE e.teacher_id = $1
        ORDER BY e.time_slot ASC`
	entries := []models.ScheduleEntryDetail{}
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return entries, nil
}

// Create inserts a new schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schedule_entries (id, teacher_id, student_id, subject, day_of_week, time_slot, created_at)
        VALUES (:id, :teacher_id, :student_id, :subject, :day_of_week, :time_slot, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// Delete removes a schedule entry scoped to its owning teacher.
func (r *ScheduleRepository) Delete(ctx context.Context, id, teacherID string) error {
	const query = `DELETE FROM schedule_entries WHERE id = $1 AND teacher_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, teacherID); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

// FindTimeSlots fetches the teacher's configured slot set.
func (r *ScheduleRepository) FindTimeSlots(ctx context.Context, teacherID string) (*models.TeacherTimeSlots, error) {
	const query = `SELECT teacher_id, time_slots, updated_at FROM teacher_time_slots WHERE teacher_id = $1`
	var slots models.TeacherTimeSlots
	if err := r.db.GetContext(ctx, &slots, query, teacherID); err != nil {
		return nil, err
	}
	return &slots, nil
}

// UpsertTimeSlots creates or replaces the teacher's slot set.
func (r *ScheduleRepository) UpsertTimeSlots(ctx context.Context, teacherID string, timeSlots []string) error {
	const query = `INSERT INTO teacher_time_slots (teacher_id, time_slots, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (teacher_id) DO UPDATE SET time_slots = EXCLUDED.time_slots, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, teacherID, pq.StringArray(timeSlots), time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert time slots: %w", err)
	}
	return nil
}
