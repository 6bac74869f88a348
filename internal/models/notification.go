package models

import "time"

// Notification lead-time types, matching the rows an external scheduled
// job writes as a lesson approaches its start time.
const (
	NotificationOneDay     = "1_day"
	NotificationThreeHours = "3_hours"
	NotificationOneHour    = "1_hour"
	NotificationTenMinutes = "10_minutes"
)

// Notification references a student and a lesson; the core only reads
// and flips the read flag, it never creates or deletes rows.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	LessonID  string    `db:"lesson_id" json:"lesson_id"`
	Type      string    `db:"type" json:"type"`
	Read      bool      `db:"read" json:"read"`
	Sent      bool      `db:"sent" json:"sent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NotificationDetail adds the student and lesson context used to render
// the reminder message.
type NotificationDetail struct {
	Notification
	StudentName     string `db:"student_name" json:"student_name"`
	LessonSubject   string `db:"lesson_subject" json:"lesson_subject"`
	LessonStartTime string `db:"lesson_start_time" json:"lesson_start_time"`
	LessonDayOfWeek string `db:"lesson_day_of_week" json:"lesson_day_of_week"`
}
