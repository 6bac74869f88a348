package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

type lessonRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Lesson, error)
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Postpone(ctx context.Context, id string, postponedTo time.Time, reason string) error
	Delete(ctx context.Context, id string) error
}

type lessonStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// LessonService manages the lesson lifecycle.
type LessonService struct {
	repo      lessonRepository
	students  lessonStudentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService constructs a LessonService instance.
func NewLessonService(repo lessonRepository, students lessonStudentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LessonService{repo: repo, students: students, cache: cache, validator: validate, logger: logger}
}

// List returns all of the teacher's lessons ordered by start time.
func (s *LessonService) List(ctx context.Context, teacherID string) ([]models.LessonDetail, error) {
	lessons, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, nil
}

// ListWeekly groups the teacher's lessons into the seven weekday
// buckets, preserving upstream ordering. Lessons with an unknown day
// value are dropped.
func (s *LessonService) ListWeekly(ctx context.Context, teacherID string) ([]models.WeekdayBucket, error) {
	lessons, err := s.List(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return GroupByWeekday(lessons), nil
}

// GroupByWeekday buckets lessons into monday through sunday.
func GroupByWeekday(lessons []models.LessonDetail) []models.WeekdayBucket {
	byDay := make(map[string][]models.LessonDetail, len(models.Weekdays))
	for _, lesson := range lessons {
		if !models.IsWeekday(lesson.DayOfWeek) {
			continue
		}
		byDay[lesson.DayOfWeek] = append(byDay[lesson.DayOfWeek], lesson)
	}

	buckets := make([]models.WeekdayBucket, 0, len(models.Weekdays))
	for _, day := range models.Weekdays {
		dayLessons := byDay[day]
		if dayLessons == nil {
			dayLessons = []models.LessonDetail{}
		}
		buckets = append(buckets, models.WeekdayBucket{Day: day, Lessons: dayLessons})
	}
	return buckets
}

// Create schedules a new lesson for an owned student.
func (s *LessonService) Create(ctx context.Context, teacherID string, req dto.CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	if !models.IsWeekday(req.DayOfWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day of week")
	}

	if _, err := s.ownedStudent(ctx, teacherID, req.StudentID); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		StudentID:    req.StudentID,
		Subject:      req.Subject,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		PricePerHour: req.PricePerHour,
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}
	s.invalidateReports(ctx, teacherID)
	return lesson, nil
}

// Complete marks a lesson finished. Completion is terminal; an already
// completed lesson cannot transition again. Postponement fields are
// left in place as history.
func (s *LessonService) Complete(ctx context.Context, teacherID, lessonID string) (*models.Lesson, error) {
	lesson, err := s.ownedLesson(ctx, teacherID, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.IsScheduled() && *lesson.Status == models.LessonStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "lesson is already completed")
	}

	if err := s.repo.UpdateStatus(ctx, lessonID, models.LessonStatusCompleted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete lesson")
	}
	status := models.LessonStatusCompleted
	lesson.Status = &status
	s.invalidateReports(ctx, teacherID)
	return lesson, nil
}

// Postpone moves a lesson to a later date. A completed lesson cannot
// be postponed, and the new date and reason are required together.
func (s *LessonService) Postpone(ctx context.Context, teacherID, lessonID string, req dto.PostponeLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid postpone payload")
	}

	lesson, err := s.ownedLesson(ctx, teacherID, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.IsScheduled() && *lesson.Status == models.LessonStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "completed lesson cannot be postponed")
	}

	if err := s.repo.Postpone(ctx, lessonID, req.PostponedTo, req.Reason); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to postpone lesson")
	}
	status := models.LessonStatusPostponed
	lesson.Status = &status
	lesson.PostponedTo = &req.PostponedTo
	lesson.PostponeReason = &req.Reason
	s.invalidateReports(ctx, teacherID)
	return lesson, nil
}

// Delete removes a lesson regardless of status.
func (s *LessonService) Delete(ctx context.Context, teacherID, lessonID string) error {
	if _, err := s.ownedLesson(ctx, teacherID, lessonID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, lessonID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	s.invalidateReports(ctx, teacherID)
	return nil
}

func (s *LessonService) ownedLesson(ctx context.Context, teacherID, lessonID string) (*models.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	if _, err := s.ownedStudent(ctx, teacherID, lesson.StudentID); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ownedStudent(ctx context.Context, teacherID, studentID string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, studentID)
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

func (s *LessonService) invalidateReports(ctx context.Context, teacherID string) {
	if err := s.cache.Invalidate(ctx, "reports:"+teacherID+":*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
