package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	"github.com/tutorly/tutor-api/pkg/storage"
)

type fakeProfileRepo struct {
	profile *models.TeacherProfile
	avatar  *string
}

func (f *fakeProfileRepo) FindByUserID(context.Context, string) (*models.TeacherProfile, error) {
	if f.profile == nil {
		return nil, sql.ErrNoRows
	}
	return f.profile, nil
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *models.TeacherProfile) error {
	profile.ID = "t1"
	f.profile = profile
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *models.TeacherProfile) error {
	f.profile = profile
	return nil
}

func (f *fakeProfileRepo) UpdateAvatar(_ context.Context, _ string, avatarURL *string) error {
	f.avatar = avatarURL
	return nil
}

type fakeTeacherUsers struct {
	user *models.User
}

func (f *fakeTeacherUsers) FindByID(context.Context, string) (*models.User, error) {
	if f.user == nil {
		return nil, sql.ErrNoRows
	}
	return f.user, nil
}

type fakeStudentCounter struct{ count int }

func (f *fakeStudentCounter) CountByTeacher(context.Context, string) (int, error) {
	return f.count, nil
}

type fakeLessonLister struct{ lessons []models.LessonDetail }

func (f *fakeLessonLister) ListByTeacher(context.Context, string) ([]models.LessonDetail, error) {
	return f.lessons, nil
}

type fakePaymentLister struct{ payments []models.Payment }

func (f *fakePaymentLister) ListByTeacherInRange(context.Context, string, time.Time, time.Time) ([]models.Payment, error) {
	return f.payments, nil
}

func newTeacherService(t *testing.T, repo *fakeProfileRepo, users *fakeTeacherUsers, students *fakeStudentCounter, lessons *fakeLessonLister, payments *fakePaymentLister) *TeacherService {
	t.Helper()
	store, err := storage.NewBucketStorage(t.TempDir())
	require.NoError(t, err)
	return NewTeacherService(repo, users, students, lessons, payments, store, nil, nil)
}

func TestTeacherServiceGetProfileCreatesOnFirstAccess(t *testing.T) {
	repo := &fakeProfileRepo{}
	users := &fakeTeacherUsers{user: &models.User{ID: "u1", Email: "jane.doe@example.com"}}
	svc := newTeacherService(t, repo, users, &fakeStudentCounter{}, &fakeLessonLister{}, &fakePaymentLister{})

	profile, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", profile.FullName)
	assert.Equal(t, "u1", profile.UserID)
	assert.NotNil(t, repo.profile)
}

func TestTeacherServiceGetProfileExisting(t *testing.T) {
	repo := &fakeProfileRepo{profile: &models.TeacherProfile{ID: "t1", UserID: "u1", FullName: "Jane"}}
	svc := newTeacherService(t, repo, &fakeTeacherUsers{}, &fakeStudentCounter{}, &fakeLessonLister{}, &fakePaymentLister{})

	profile, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile.FullName)
}

func TestTeacherServiceUpdateProfile(t *testing.T) {
	subject := "mathematics"
	repo := &fakeProfileRepo{profile: &models.TeacherProfile{ID: "t1", UserID: "u1", FullName: "Jane"}}
	svc := newTeacherService(t, repo, &fakeTeacherUsers{}, &fakeStudentCounter{}, &fakeLessonLister{}, &fakePaymentLister{})

	profile, err := svc.UpdateProfile(context.Background(), "u1", dto.UpdateProfileRequest{FullName: "Jane Doe", Subject: &subject})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.FullName)
	require.NotNil(t, profile.Subject)
	assert.Equal(t, subject, *profile.Subject)
}

func TestTeacherServiceStats(t *testing.T) {
	completed := models.LessonStatusCompleted
	repo := &fakeProfileRepo{profile: &models.TeacherProfile{ID: "t1", UserID: "u1"}}
	lessons := &fakeLessonLister{lessons: []models.LessonDetail{
		{Lesson: models.Lesson{Status: &completed}},
		{Lesson: models.Lesson{Status: &completed}},
		{Lesson: models.Lesson{}},
	}}
	payments := &fakePaymentLister{payments: []models.Payment{
		{Amount: 300, Status: models.PaymentStatusCompleted},
		{Amount: 100, Status: models.PaymentStatusPending},
	}}
	svc := newTeacherService(t, repo, &fakeTeacherUsers{}, &fakeStudentCounter{count: 5}, lessons, payments)

	stats, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalStudents)
	assert.Equal(t, 3, stats.TotalLessons)
	assert.Equal(t, 2, stats.CompletedLessons)
	assert.Equal(t, float64(300), stats.TotalEarnings)
}

func TestTeacherServiceUploadAvatar(t *testing.T) {
	repo := &fakeProfileRepo{profile: &models.TeacherProfile{ID: "t1", UserID: "u1"}}
	svc := newTeacherService(t, repo, &fakeTeacherUsers{}, &fakeStudentCounter{}, &fakeLessonLister{}, &fakePaymentLister{})

	profile, err := svc.UploadAvatar(context.Background(), "u1", "photo.jpg", []byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	require.NotNil(t, profile.AvatarURL)
	assert.Contains(t, *profile.AvatarURL, "t1/")
	assert.Contains(t, *profile.AvatarURL, ".jpg")
	require.NotNil(t, repo.avatar)
}

func TestTeacherServiceUploadAvatarEmpty(t *testing.T) {
	repo := &fakeProfileRepo{profile: &models.TeacherProfile{ID: "t1", UserID: "u1"}}
	svc := newTeacherService(t, repo, &fakeTeacherUsers{}, &fakeStudentCounter{}, &fakeLessonLister{}, &fakePaymentLister{})

	_, err := svc.UploadAvatar(context.Background(), "u1", "photo.jpg", nil)
	require.Error(t, err)
}

func TestTeacherServiceRemoveAvatarNoop(t *testing.T) {
	repo := &fakeProfileRepo{profile: &models.TeacherProfile{ID: "t1", UserID: "u1"}}
	svc := newTeacherService(t, repo, &fakeTeacherUsers{}, &fakeStudentCounter{}, &fakeLessonLister{}, &fakePaymentLister{})

	require.NoError(t, svc.RemoveAvatar(context.Background(), "u1"))
	assert.Nil(t, repo.avatar)
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "jane", emailLocalPart("jane@example.com"))
	assert.Equal(t, "plain", emailLocalPart("plain"))
}
