package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/storage"
)

type subjectRepository interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	FindSubject(ctx context.Context, id string) (*models.Subject, error)
	CreateSubject(ctx context.Context, subject *models.Subject) error
	DeleteSubject(ctx context.Context, id string) error
	ListResources(ctx context.Context, subjectID string) ([]models.LessonResource, error)
	FindResource(ctx context.Context, id string) (*models.LessonResource, error)
	CreateResource(ctx context.Context, resource *models.LessonResource) error
	DeleteResource(ctx context.Context, id string) error
	DeleteResourcesBySubject(ctx context.Context, subjectID string) error
}

// SubjectService manages the shared subject catalog and its resources.
type SubjectService struct {
	repo      subjectRepository
	store     *storage.BucketStorage
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(repo subjectRepository, store *storage.BucketStorage, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, store: store, validator: validate, logger: logger}
}

// ListSubjects returns the catalog.
func (s *SubjectService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.ListSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// CreateSubject adds a catalog entry.
func (s *SubjectService) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := &models.Subject{
		Name:        req.Name,
		Description: req.Description,
		Objectives:  req.Objectives,
	}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// DeleteSubject removes a subject and everything hanging off it. Files
// go first, then resource rows, then the subject itself. A file that
// cannot be removed is logged and skipped so the rows still go away.
func (s *SubjectService) DeleteSubject(ctx context.Context, subjectID string) error {
	if _, err := s.findSubject(ctx, subjectID); err != nil {
		return err
	}

	resources, err := s.repo.ListResources(ctx, subjectID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject resources")
	}
	for _, resource := range resources {
		if resource.FileURL == nil {
			continue
		}
		if err := s.store.Remove(storage.BucketResources, *resource.FileURL); err != nil {
			s.logger.Warn("failed to remove resource file",
				zap.String("resource_id", resource.ID), zap.Error(err))
		}
	}

	if err := s.repo.DeleteResourcesBySubject(ctx, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject resources")
	}
	if err := s.repo.DeleteSubject(ctx, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}

	s.logger.Info("subject deleted", zap.String("subject_id", subjectID), zap.Int("resources", len(resources)))
	return nil
}

// ListResources returns resources, optionally scoped to one subject.
func (s *SubjectService) ListResources(ctx context.Context, subjectID string) ([]models.LessonResource, error) {
	resources, err := s.repo.ListResources(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resources")
	}
	return resources, nil
}

// CreateResource attaches a resource to a subject. The file part is
// optional; link-only resources carry no stored file.
func (s *SubjectService) CreateResource(ctx context.Context, req dto.CreateResourceRequest, filename string, data []byte) (*models.LessonResource, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resource payload")
	}
	if _, err := s.findSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	resource := &models.LessonResource{
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}

	if len(data) > 0 {
		ext := strings.ToLower(filepath.Ext(filename))
		path := fmt.Sprintf("%s/%s%s", req.SubjectID, uuid.NewString(), ext)
		stored, err := s.store.Save(storage.BucketResources, path, data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store resource file")
		}
		resource.FileURL = &stored
	}

	if err := s.repo.CreateResource(ctx, resource); err != nil {
		if resource.FileURL != nil {
			if rmErr := s.store.Remove(storage.BucketResources, *resource.FileURL); rmErr != nil {
				s.logger.Warn("failed to remove orphaned resource file", zap.Error(rmErr))
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create resource")
	}
	return resource, nil
}

// ReadResourceFile loads the stored file for download.
func (s *SubjectService) ReadResourceFile(ctx context.Context, resourceID string) (*models.LessonResource, []byte, error) {
	resource, err := s.repo.FindResource(ctx, resourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}
	if resource.FileURL == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "resource has no stored file")
	}
	data, err := s.store.Read(storage.BucketResources, *resource.FileURL)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read resource file")
	}
	return resource, data, nil
}

// DeleteResource removes one resource and its stored file.
func (s *SubjectService) DeleteResource(ctx context.Context, resourceID string) error {
	resource, err := s.repo.FindResource(ctx, resourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}

	if resource.FileURL != nil {
		if err := s.store.Remove(storage.BucketResources, *resource.FileURL); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove resource file")
		}
	}
	if err := s.repo.DeleteResource(ctx, resourceID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete resource")
	}
	return nil
}

func (s *SubjectService) findSubject(ctx context.Context, subjectID string) (*models.Subject, error) {
	subject, err := s.repo.FindSubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}
