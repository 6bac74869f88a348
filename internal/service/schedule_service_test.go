package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

type fakeScheduleRepo struct {
	entries []models.ScheduleEntryDetail
	slots   *models.TeacherTimeSlots

	created       *models.ScheduleEntry
	upsertedSlots []string
	deletedID     string
}

func (f *fakeScheduleRepo) ListByTeacher(context.Context, string) ([]models.ScheduleEntryDetail, error) {
	return f.entries, nil
}

func (f *fakeScheduleRepo) Create(_ context.Context, entry *models.ScheduleEntry) error {
	f.created = entry
	return nil
}

func (f *fakeScheduleRepo) Delete(_ context.Context, id, _ string) error {
	f.deletedID = id
	return nil
}

func (f *fakeScheduleRepo) FindTimeSlots(context.Context, string) (*models.TeacherTimeSlots, error) {
	if f.slots == nil {
		return nil, sql.ErrNoRows
	}
	return f.slots, nil
}

func (f *fakeScheduleRepo) UpsertTimeSlots(_ context.Context, _ string, timeSlots []string) error {
	f.upsertedSlots = timeSlots
	return nil
}

func TestScheduleServiceTimeSlotsSeedsDefaults(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewScheduleService(repo, &fakeStudentFinder{}, nil, nil)

	slots, err := svc.TimeSlots(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTimeSlots, slots)
	assert.Equal(t, models.DefaultTimeSlots, repo.upsertedSlots)
}

func TestScheduleServiceTimeSlotsReturnsStored(t *testing.T) {
	repo := &fakeScheduleRepo{slots: &models.TeacherTimeSlots{TeacherID: "t1", TimeSlots: []string{"09:00", "10:30"}}}
	svc := NewScheduleService(repo, &fakeStudentFinder{}, nil, nil)

	slots, err := svc.TimeSlots(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:30"}, slots)
	assert.Nil(t, repo.upsertedSlots)
}

func TestScheduleServiceGrid(t *testing.T) {
	repo := &fakeScheduleRepo{
		slots: &models.TeacherTimeSlots{TeacherID: "t1", TimeSlots: []string{"09:00", "10:00"}},
		entries: []models.ScheduleEntryDetail{
			{ScheduleEntry: models.ScheduleEntry{DayOfWeek: "monday", TimeSlot: "09:00", Subject: "math"}, StudentName: "Ada"},
			{ScheduleEntry: models.ScheduleEntry{DayOfWeek: "sunday", TimeSlot: "10:00", Subject: "physics"}, StudentName: "Grace"},
			{ScheduleEntry: models.ScheduleEntry{DayOfWeek: "monday", TimeSlot: "23:00", Subject: "late"}, StudentName: "Nobody"},
		},
	}
	svc := NewScheduleService(repo, &fakeStudentFinder{}, nil, nil)

	grid, err := svc.Grid(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, grid.TimeSlots)
	assert.Equal(t, models.Weekdays, grid.Days)

	require.Len(t, grid.Cells["09:00"], 7)
	assert.Equal(t, "Ada (math)", grid.Cells["09:00"][0])
	assert.Equal(t, "Grace (physics)", grid.Cells["10:00"][6])
	assert.Empty(t, grid.Cells["09:00"][1])
	// The entry outside the slot list is not rendered.
	_, ok := grid.Cells["23:00"]
	assert.False(t, ok)
}

func TestScheduleServiceCreateEntryUnknownSlot(t *testing.T) {
	repo := &fakeScheduleRepo{slots: &models.TeacherTimeSlots{TimeSlots: []string{"09:00"}}}
	svc := NewScheduleService(repo, &fakeStudentFinder{student: &models.Student{ID: "s1", TeacherID: "t1"}}, nil, nil)

	_, err := svc.CreateEntry(context.Background(), "t1", dto.CreateScheduleEntryRequest{
		StudentID: uuid.NewString(),
		Subject:   "math",
		DayOfWeek: "monday",
		TimeSlot:  "21:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceCreateEntry(t *testing.T) {
	studentID := uuid.NewString()
	repo := &fakeScheduleRepo{slots: &models.TeacherTimeSlots{TimeSlots: []string{"09:00"}}}
	svc := NewScheduleService(repo, &fakeStudentFinder{student: &models.Student{ID: studentID, TeacherID: "t1"}}, nil, nil)

	entry, err := svc.CreateEntry(context.Background(), "t1", dto.CreateScheduleEntryRequest{
		StudentID: studentID,
		Subject:   "math",
		DayOfWeek: "monday",
		TimeSlot:  "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", entry.TeacherID)
	require.NotNil(t, repo.created)
	assert.Equal(t, "09:00", repo.created.TimeSlot)
}

func TestScheduleServiceCreateEntryForeignStudent(t *testing.T) {
	repo := &fakeScheduleRepo{slots: &models.TeacherTimeSlots{TimeSlots: []string{"09:00"}}}
	svc := NewScheduleService(repo, &fakeStudentFinder{student: &models.Student{ID: "s1", TeacherID: "other"}}, nil, nil)

	_, err := svc.CreateEntry(context.Background(), "t1", dto.CreateScheduleEntryRequest{
		StudentID: uuid.NewString(),
		Subject:   "math",
		DayOfWeek: "monday",
		TimeSlot:  "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceUpdateTimeSlots(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewScheduleService(repo, &fakeStudentFinder{}, nil, nil)

	slots, err := svc.UpdateTimeSlots(context.Background(), "t1", dto.UpdateTimeSlotsRequest{TimeSlots: []string{"10:00", "11:00"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00"}, slots)
	assert.Equal(t, []string{"10:00", "11:00"}, repo.upsertedSlots)
}

func TestScheduleServiceUpdateTimeSlotsRejectsEmpty(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleRepo{}, &fakeStudentFinder{}, nil, nil)
	_, err := svc.UpdateTimeSlots(context.Background(), "t1", dto.UpdateTimeSlotsRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceDeleteEntry(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewScheduleService(repo, &fakeStudentFinder{}, nil, nil)

	require.NoError(t, svc.DeleteEntry(context.Background(), "t1", "e1"))
	assert.Equal(t, "e1", repo.deletedID)
}
