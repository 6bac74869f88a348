package dto

import "time"

// CreateLessonRequest is the payload for scheduling a lesson.
type CreateLessonRequest struct {
	StudentID    string  `json:"student_id" validate:"required,uuid"`
	Subject      string  `json:"subject" validate:"required"`
	DayOfWeek    string  `json:"day_of_week" validate:"required"`
	StartTime    string  `json:"start_time" validate:"required"`
	PricePerHour float64 `json:"price_per_hour" validate:"gte=0"`
}

// PostponeLessonRequest carries the rescheduled date and its reason.
// Both fields are required together; a postponement without a reason
// is rejected.
type PostponeLessonRequest struct {
	PostponedTo time.Time `json:"postponed_to" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
}
