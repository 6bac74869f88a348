package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorly/tutor-api/internal/models"
)

// SubjectRepository manages the topic catalog and its resources.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListSubjects returns all subjects ordered by name.
func (r *SubjectRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, name, description, objectives, created_at FROM subjects ORDER BY name ASC`
	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindSubject fetches a subject by ID.
func (r *SubjectRepository) FindSubject(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, name, description, objectives, created_at FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// CreateSubject inserts a new catalog topic.
func (r *SubjectRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO subjects (id, name, description, objectives, created_at)
        VALUES (:id, :name, :description, :objectives, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// DeleteSubject removes the subject row. Resources are removed first by
// the service, leaf-first.
func (r *SubjectRepository) DeleteSubject(ctx context.Context, id string) error {
	const query = `DELETE FROM subjects WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

// ListResources returns resources, newest first, optionally scoped to a
// subject.
func (r *SubjectRepository) ListResources(ctx context.Context, subjectID string) ([]models.LessonResource, error) {
	query := `SELECT id, subject_id, title, description, file_url, tags, created_at FROM lesson_resources`
	args := []interface{}{}
	if subjectID != "" {
		query += ` WHERE subject_id = $1`
		args = append(args, subjectID)
	}
	query += ` ORDER BY created_at DESC`

	resources := []models.LessonResource{}
	if err := r.db.SelectContext(ctx, &resources, query, args...); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// FindResource fetches a resource by ID.
func (r *SubjectRepository) FindResource(ctx context.Context, id string) (*models.LessonResource, error) {
	const query = `SELECT id, subject_id, title, description, file_url, tags, created_at FROM lesson_resources WHERE id = $1`
	var resource models.LessonResource
	if err := r.db.GetContext(ctx, &resource, query, id); err != nil {
		return nil, err
	}
	return &resource, nil
}

// CreateResource inserts a new resource row.
func (r *SubjectRepository) CreateResource(ctx context.Context, resource *models.LessonResource) error {
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO lesson_resources (id, subject_id, title, description, file_url, tags, created_at)
        VALUES (:id, :subject_id, :title, :description, :file_url, :tags, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, resource); err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// DeleteResource removes a single resource row.
func (r *SubjectRepository) DeleteResource(ctx context.Context, id string) error {
	const query = `DELETE FROM lesson_resources WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

// DeleteResourcesBySubject removes all resource rows of a subject.
func (r *SubjectRepository) DeleteResourcesBySubject(ctx context.Context, subjectID string) error {
	const query = `DELETE FROM lesson_resources WHERE subject_id = $1`
	if _, err := r.db.ExecContext(ctx, query, subjectID); err != nil {
		return fmt.Errorf("delete subject resources: %w", err)
	}
	return nil
}
