package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

type scheduleRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleEntryDetail, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id, teacherID string) error
	FindTimeSlots(ctx context.Context, teacherID string) (*models.TeacherTimeSlots, error)
	UpsertTimeSlots(ctx context.Context, teacherID string, timeSlots []string) error
}

type scheduleStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// ScheduleService manages the weekly timetable.
type ScheduleService struct {
	repo      scheduleRepository
	students  scheduleStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService instance.
func NewScheduleService(repo scheduleRepository, students scheduleStudentRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{repo: repo, students: students, validator: validate, logger: logger}
}

// ListEntries returns the teacher's raw timetable entries.
func (s *ScheduleService) ListEntries(ctx context.Context, teacherID string) ([]models.ScheduleEntryDetail, error) {
	entries, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	return entries, nil
}

// Grid renders the timetable as rows of time slots against the seven
// weekdays. Entries outside the slot list or with an unknown day are
// not rendered.
func (s *ScheduleService) Grid(ctx context.Context, teacherID string) (*models.ScheduleGrid, error) {
	slots, err := s.TimeSlots(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ListEntries(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	dayIndex := make(map[string]int, len(models.Weekdays))
	for i, day := range models.Weekdays {
		dayIndex[day] = i
	}

	grid := &models.ScheduleGrid{
		TimeSlots: slots,
		Days:      models.Weekdays,
		Cells:     make(map[string][]string, len(slots)),
	}
	for _, slot := range slots {
		grid.Cells[slot] = make([]string, len(models.Weekdays))
	}

	for _, entry := range entries {
		cells, ok := grid.Cells[entry.TimeSlot]
		if !ok {
			continue
		}
		idx, ok := dayIndex[entry.DayOfWeek]
		if !ok {
			continue
		}
		cells[idx] = fmt.Sprintf("%s (%s)", entry.StudentName, entry.Subject)
	}

	return grid, nil
}

// TimeSlots returns the teacher's slot list, seeding the hourly default
// on first access.
func (s *ScheduleService) TimeSlots(ctx context.Context, teacherID string) ([]string, error) {
	stored, err := s.repo.FindTimeSlots(ctx, teacherID)
	if err == nil {
		return stored.TimeSlots, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}

	if err := s.repo.UpsertTimeSlots(ctx, teacherID, models.DefaultTimeSlots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed time slots")
	}
	return models.DefaultTimeSlots, nil
}

// UpdateTimeSlots replaces the slot list.
func (s *ScheduleService) UpdateTimeSlots(ctx context.Context, teacherID string, req dto.UpdateTimeSlotsRequest) ([]string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slots payload")
	}
	if err := s.repo.UpsertTimeSlots(ctx, teacherID, req.TimeSlots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update time slots")
	}
	return req.TimeSlots, nil
}

// CreateEntry places an owned student into a timetable cell.
func (s *ScheduleService) CreateEntry(ctx context.Context, teacherID string, req dto.CreateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if !models.IsWeekday(req.DayOfWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day of week")
	}

	slots, err := s.TimeSlots(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !containsSlot(slots, req.TimeSlot) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "time slot is not in the teacher's grid")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another teacher")
	}

	entry := &models.ScheduleEntry{
		TeacherID: teacherID,
		StudentID: req.StudentID,
		Subject:   req.Subject,
		DayOfWeek: req.DayOfWeek,
		TimeSlot:  req.TimeSlot,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	return entry, nil
}

// DeleteEntry removes a timetable cell scoped to the teacher.
func (s *ScheduleService) DeleteEntry(ctx context.Context, teacherID, entryID string) error {
	if err := s.repo.Delete(ctx, entryID, teacherID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	return nil
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
