package models

import "time"

// Student belongs to exactly one teacher profile.
type Student struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	FullName    string    `db:"full_name" json:"full_name"`
	Grade       string    `db:"grade" json:"grade"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	ParentName  *string   `db:"parent_name" json:"parent_name,omitempty"`
	ParentPhone *string   `db:"parent_phone" json:"parent_phone,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates list parameters for students.
type StudentFilter struct {
	Search    string
	SortBy    string
	SortOrder string
}
