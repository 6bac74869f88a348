package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

type studentRepository interface {
	ListByTeacher(ctx context.Context, teacherID string, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentLessonRepository interface {
	DeleteByStudent(ctx context.Context, studentID string) error
}

// StudentService manages a teacher's roster.
type StudentService struct {
	repo      studentRepository
	lessons   studentLessonRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, lessons studentLessonRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, lessons: lessons, cache: cache, validator: validate, logger: logger}
}

// List returns the teacher's students, filtered and sorted.
func (s *StudentService) List(ctx context.Context, teacherID string, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.repo.ListByTeacher(ctx, teacherID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student, enforcing teacher ownership.
func (s *StudentService) Get(ctx context.Context, teacherID, studentID string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another teacher")
	}
	return student, nil
}

// Create adds a student to the roster.
func (s *StudentService) Create(ctx context.Context, teacherID string, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := &models.Student{
		TeacherID:   teacherID,
		FullName:    req.FullName,
		Grade:       req.Grade,
		Phone:       req.Phone,
		ParentName:  req.ParentName,
		ParentPhone: req.ParentPhone,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidateReports(ctx, teacherID)
	return student, nil
}

// Update edits a student's details.
func (s *StudentService) Update(ctx context.Context, teacherID, studentID string, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.Get(ctx, teacherID, studentID)
	if err != nil {
		return nil, err
	}

	student.FullName = req.FullName
	student.Grade = req.Grade
	student.Phone = req.Phone
	student.ParentName = req.ParentName
	student.ParentPhone = req.ParentPhone
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidateReports(ctx, teacherID)
	return student, nil
}

// Delete removes a student and their lessons, leaf records first, so a
// mid-way failure leaves a retryable state rather than orphaned rows.
func (s *StudentService) Delete(ctx context.Context, teacherID, studentID string) error {
	if _, err := s.Get(ctx, teacherID, studentID); err != nil {
		return err
	}

	if err := s.lessons.DeleteByStudent(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student lessons")
	}
	if err := s.repo.Delete(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}

	s.logger.Info("student deleted", zap.String("student_id", studentID), zap.String("teacher_id", teacherID))
	s.invalidateReports(ctx, teacherID)
	return nil
}

func (s *StudentService) invalidateReports(ctx context.Context, teacherID string) {
	if err := s.cache.Invalidate(ctx, "reports:"+teacherID+":*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
