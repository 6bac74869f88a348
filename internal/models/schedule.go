package models

import (
	"time"

	"github.com/lib/pq"
)

// ScheduleEntry is a weekly timetable slot. It is modeled independently
// of Lesson; the two are never reconciled.
type ScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Subject   string    `db:"subject" json:"subject"`
	DayOfWeek string    `db:"day_of_week" json:"day_of_week"`
	TimeSlot  string    `db:"time_slot" json:"time_slot"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduleEntryDetail joins the student's name onto a schedule row.
type ScheduleEntryDetail struct {
	ScheduleEntry
	StudentName string `db:"student_name" json:"student_name"`
}

// TeacherTimeSlots holds the ordered set of slot strings a teacher's
// grid is rendered and validated against.
type TeacherTimeSlots struct {
	TeacherID string         `db:"teacher_id" json:"teacher_id"`
	TimeSlots pq.StringArray `db:"time_slots" json:"time_slots"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// DefaultTimeSlots is the hourly grid seeded for new teachers.
var DefaultTimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00",
	"15:00", "16:00", "17:00", "18:00", "19:00", "20:00",
}

// ScheduleGrid is the rendered weekly timetable: one row per slot, one
// cell per weekday, blank when no entry exists for the pair.
type ScheduleGrid struct {
	TimeSlots []string            `json:"time_slots"`
	Days      []string            `json:"days"`
	Cells     map[string][]string `json:"cells"` // slot -> one cell per day
}
