package models

import "time"

// Lesson lifecycle statuses. A NULL status means the lesson is still
// scheduled; there is no cancelled state for lessons.
const (
	LessonStatusCompleted = "completed"
	LessonStatusPostponed = "postponed"
)

// Weekdays is the canonical bucket order for weekly grouping.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// IsWeekday reports whether day is one of the seven canonical values.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Lesson is a recurring tutoring session tied to a student.
type Lesson struct {
	ID             string     `db:"id" json:"id"`
	StudentID      string     `db:"student_id" json:"student_id"`
	Subject        string     `db:"subject" json:"subject"`
	DayOfWeek      string     `db:"day_of_week" json:"day_of_week"`
	StartTime      string     `db:"start_time" json:"start_time"`
	PricePerHour   float64    `db:"price_per_hour" json:"price_per_hour"`
	Status         *string    `db:"status" json:"status,omitempty"`
	PostponedTo    *time.Time `db:"postponed_to" json:"postponed_to,omitempty"`
	PostponeReason *string    `db:"postpone_reason" json:"postpone_reason,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// IsScheduled reports whether the lesson is still in its initial state.
func (l Lesson) IsScheduled() bool {
	return l.Status == nil
}

// StatusLabel maps the nullable status column to a display label.
func (l Lesson) StatusLabel() string {
	if l.Status == nil {
		return "scheduled"
	}
	return *l.Status
}

// LessonDetail joins the owning student's name onto a lesson row.
type LessonDetail struct {
	Lesson
	StudentName string `db:"student_name" json:"student_name"`
}

// WeekdayBucket groups a day's lessons preserving upstream ordering.
type WeekdayBucket struct {
	Day     string         `json:"day"`
	Lessons []LessonDetail `json:"lessons"`
}
