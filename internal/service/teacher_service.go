package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/storage"
)

type teacherProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error)
	Create(ctx context.Context, profile *models.TeacherProfile) error
	Update(ctx context.Context, profile *models.TeacherProfile) error
	UpdateAvatar(ctx context.Context, id string, avatarURL *string) error
}

type teacherUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type teacherStudentCounter interface {
	CountByTeacher(ctx context.Context, teacherID string) (int, error)
}

type teacherLessonLister interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error)
}

type teacherPaymentLister interface {
	ListByTeacherInRange(ctx context.Context, teacherID string, from, to time.Time) ([]models.Payment, error)
}

// TeacherService manages the tutor's own profile.
type TeacherService struct {
	repo      teacherProfileRepository
	users     teacherUserRepository
	students  teacherStudentCounter
	lessons   teacherLessonLister
	payments  teacherPaymentLister
	store     *storage.BucketStorage
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(repo teacherProfileRepository, users teacherUserRepository, students teacherStudentCounter, lessons teacherLessonLister, payments teacherPaymentLister, store *storage.BucketStorage, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherService{
		repo:      repo,
		users:     users,
		students:  students,
		lessons:   lessons,
		payments:  payments,
		store:     store,
		validator: validate,
		logger:    logger,
	}
}

// GetProfile returns the teacher profile owned by the user, creating it
// on first access. The initial display name is the email local part.
func (s *TeacherService) GetProfile(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	created := &models.TeacherProfile{
		UserID:   userID,
		FullName: emailLocalPart(user.Email),
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create profile")
	}
	s.logger.Info("teacher profile created", zap.String("user_id", userID))
	return created, nil
}

// UpdateProfile edits the mutable profile fields.
func (s *TeacherService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.TeacherProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.FullName = req.FullName
	profile.Phone = req.Phone
	profile.Subject = req.Subject
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return profile, nil
}

// Stats summarises the teacher's footprint for the profile page.
func (s *TeacherService) Stats(ctx context.Context, userID string) (*models.TeacherStats, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.students.CountByTeacher(ctx, profile.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	lessons, err := s.lessons.ListByTeacher(ctx, profile.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	stats := &models.TeacherStats{TotalStudents: total, TotalLessons: len(lessons)}
	for _, lesson := range lessons {
		if !lesson.IsScheduled() && *lesson.Status == models.LessonStatusCompleted {
			stats.CompletedLessons++
		}
	}

	payments, err := s.payments.ListByTeacherInRange(ctx, profile.ID, time.Time{}, farFuture())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	for _, payment := range payments {
		if payment.Status == models.PaymentStatusCompleted {
			stats.TotalEarnings += payment.Amount
		}
	}

	return stats, nil
}

// UploadAvatar stores an avatar image and points the profile at it.
// Any previous avatar file is removed first.
func (s *TeacherService) UploadAvatar(ctx context.Context, userID, filename string, data []byte) (*models.TeacherProfile, error) {
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "avatar file is empty")
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.AvatarURL != nil {
		if err := s.store.Remove(storage.BucketAvatars, *profile.AvatarURL); err != nil {
			s.logger.Warn("failed to remove previous avatar", zap.Error(err))
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	path := fmt.Sprintf("%s/%s%s", profile.ID, uuid.NewString(), ext)
	stored, err := s.store.Save(storage.BucketAvatars, path, data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store avatar")
	}

	if err := s.repo.UpdateAvatar(ctx, profile.ID, &stored); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update avatar")
	}
	profile.AvatarURL = &stored
	return profile, nil
}

// RemoveAvatar deletes the stored avatar and clears the reference.
func (s *TeacherService) RemoveAvatar(ctx context.Context, userID string) error {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile.AvatarURL == nil {
		return nil
	}
	if err := s.store.Remove(storage.BucketAvatars, *profile.AvatarURL); err != nil {
		s.logger.Warn("failed to remove avatar file", zap.Error(err))
	}
	if err := s.repo.UpdateAvatar(ctx, profile.ID, nil); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear avatar")
	}
	return nil
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func farFuture() time.Time {
	return time.Now().UTC().AddDate(100, 0, 0)
}
