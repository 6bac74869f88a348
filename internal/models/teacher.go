package models

import "time"

// TeacherProfile is the tutor identity owning students, lessons and
// schedule data. One row per user, created lazily on first access.
type TeacherProfile struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherStats summarises a teacher's footprint for the profile page.
type TeacherStats struct {
	TotalStudents    int     `json:"total_students"`
	TotalLessons     int     `json:"total_lessons"`
	CompletedLessons int     `json:"completed_lessons"`
	TotalEarnings    float64 `json:"total_earnings"`
}
