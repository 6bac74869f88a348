package models

import (
	"time"

	"github.com/lib/pq"
)

// Subject is a catalog topic, independent of any teacher.
type Subject struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description *string        `db:"description" json:"description,omitempty"`
	Objectives  pq.StringArray `db:"objectives" json:"objectives"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// LessonResource is a file or link tagged to a subject. The backing
// file, when present, lives in the resources bucket under FileURL.
type LessonResource struct {
	ID          string         `db:"id" json:"id"`
	SubjectID   string         `db:"subject_id" json:"subject_id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	FileURL     *string        `db:"file_url" json:"file_url,omitempty"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
