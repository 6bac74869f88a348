package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

type fakeReportStudents struct {
	count   int
	student *models.Student
	err     error
}

func (f *fakeReportStudents) CountByTeacher(context.Context, string) (int, error) {
	return f.count, f.err
}

func (f *fakeReportStudents) FindByID(context.Context, string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.student, nil
}

type fakeReportLessons struct {
	byTeacher []models.LessonDetail
	byStudent []models.Lesson
	err       error
}

func (f *fakeReportLessons) ListByTeacher(context.Context, string) ([]models.LessonDetail, error) {
	return f.byTeacher, f.err
}

func (f *fakeReportLessons) ListByStudent(context.Context, string) ([]models.Lesson, error) {
	return f.byStudent, f.err
}

type fakeReportPayments struct {
	payments []models.Payment
	from     time.Time
	to       time.Time
	err      error
}

func (f *fakeReportPayments) ListByTeacherInRange(_ context.Context, _ string, from, to time.Time) ([]models.Payment, error) {
	f.from, f.to = from, to
	return f.payments, f.err
}

func statusPtr(s string) *string { return &s }

func lessonWithStatus(price float64, status *string) models.LessonDetail {
	return models.LessonDetail{Lesson: models.Lesson{
		ID:           "l1",
		StudentID:    "s1",
		Subject:      "math",
		DayOfWeek:    "monday",
		StartTime:    "10:00",
		PricePerHour: price,
		Status:       status,
	}}
}

func TestReportServiceDashboard(t *testing.T) {
	students := &fakeReportStudents{count: 3}
	lessons := &fakeReportLessons{byTeacher: []models.LessonDetail{
		lessonWithStatus(150, statusPtr(models.LessonStatusCompleted)),
		lessonWithStatus(150, statusPtr(models.LessonStatusCompleted)),
		lessonWithStatus(200, nil),
	}}
	payments := &fakeReportPayments{payments: []models.Payment{
		{Amount: 500, Status: models.PaymentStatusCompleted, PaymentDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{Amount: 900, Status: models.PaymentStatusPending, PaymentDate: time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)},
	}}

	svc := NewReportService(students, lessons, payments, nil, nil, time.Minute, time.Minute)
	svc.now = func() time.Time { return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC) }

	stats, err := svc.Dashboard(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 1, stats.ActiveClasses)
	assert.Equal(t, float64(300), stats.EstimatedIncome)
	assert.Equal(t, float64(500), stats.MonthlyIncome)
	assert.Equal(t, 67, stats.SuccessRate)

	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), payments.from)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), payments.to)
}

func TestBuildDashboardStatsEmpty(t *testing.T) {
	stats := buildDashboardStats(0, nil, nil)
	assert.Equal(t, 0, stats.SuccessRate)
	assert.Equal(t, 0, stats.ActiveClasses)
	assert.Equal(t, float64(0), stats.EstimatedIncome)
}

func TestBuildDashboardStatsPostponedExcluded(t *testing.T) {
	lessons := []models.LessonDetail{
		lessonWithStatus(100, statusPtr(models.LessonStatusCompleted)),
		lessonWithStatus(100, statusPtr(models.LessonStatusPostponed)),
	}
	stats := buildDashboardStats(1, lessons, nil)
	// A postponed lesson is neither completed nor active.
	assert.Equal(t, 0, stats.ActiveClasses)
	assert.Equal(t, 100, stats.SuccessRate)
	assert.Equal(t, float64(100), stats.EstimatedIncome)
}

func TestReportServiceFinancialRejectsUnknownRange(t *testing.T) {
	svc := NewReportService(&fakeReportStudents{}, &fakeReportLessons{}, &fakeReportPayments{}, nil, nil, time.Minute, time.Minute)
	_, err := svc.Financial(context.Background(), "t1", "quarter")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceFinancialMonth(t *testing.T) {
	now := time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)
	students := &fakeReportStudents{count: 2}
	lessons := &fakeReportLessons{byTeacher: []models.LessonDetail{
		lessonWithStatus(100, statusPtr(models.LessonStatusCompleted)),
		lessonWithStatus(100, statusPtr(models.LessonStatusPostponed)),
		lessonWithStatus(100, nil),
	}}
	payments := &fakeReportPayments{payments: []models.Payment{
		{Amount: 400, Status: models.PaymentStatusCompleted, PaymentMethod: models.PaymentMethodCash, PaymentDate: time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)},
		{Amount: 250, Status: models.PaymentStatusCompleted, PaymentMethod: models.PaymentMethodBankTransfer, PaymentDate: time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)},
		{Amount: 999, Status: models.PaymentStatusCancelled, PaymentMethod: models.PaymentMethodCash, PaymentDate: time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC)},
	}}

	svc := NewReportService(students, lessons, payments, nil, nil, time.Minute, time.Minute)
	svc.now = func() time.Time { return now }

	report, err := svc.Financial(context.Background(), "t1", ReportRangeMonth)
	require.NoError(t, err)

	assert.Equal(t, ReportRangeMonth, report.Range)
	assert.Equal(t, float64(650), report.TotalIncome)
	assert.Equal(t, float64(650), report.MonthlyIncome)
	assert.Equal(t, float64(650), report.YearlyIncome)
	assert.Equal(t, 2, report.TotalStudents)
	assert.Equal(t, 3, report.TotalLessons)
	assert.Equal(t, 1, report.CompletedLessons)

	// Cancelled payments still show up in the method breakdown.
	require.Len(t, report.PaymentMethods, 2)
	assert.Equal(t, models.PaymentMethodCash, report.PaymentMethods[0].Method)
	assert.Equal(t, 2, report.PaymentMethods[0].Count)
	assert.Equal(t, float64(1399), report.PaymentMethods[0].Total)
	assert.Equal(t, models.PaymentMethodBankTransfer, report.PaymentMethods[1].Method)
	assert.Equal(t, 1, report.PaymentMethods[1].Count)

	// February 2026 has 28 days, every day present even without income.
	require.Len(t, report.DailyIncomeData, 28)
	assert.Equal(t, "2026-02-03", report.DailyIncomeData[2].Label)
	assert.Equal(t, float64(650), report.DailyIncomeData[2].Amount)
	assert.Equal(t, float64(0), report.DailyIncomeData[3].Amount)

	require.Len(t, report.MonthlyIncomeData, 12)
	assert.Equal(t, "Jan", report.MonthlyIncomeData[0].Label)
	assert.Equal(t, "Feb", report.MonthlyIncomeData[1].Label)
	assert.Equal(t, float64(650), report.MonthlyIncomeData[1].Amount)
	assert.Equal(t, float64(0), report.MonthlyIncomeData[0].Amount)

	require.Len(t, report.LessonStatusData, 3)
	assert.Equal(t, models.LessonStatusCompleted, report.LessonStatusData[0].Status)
	assert.Equal(t, 1, report.LessonStatusData[0].Count)
	assert.Equal(t, models.LessonStatusPostponed, report.LessonStatusData[1].Status)
	assert.Equal(t, 1, report.LessonStatusData[1].Count)
	assert.Equal(t, "scheduled", report.LessonStatusData[2].Status)
	assert.Equal(t, 1, report.LessonStatusData[2].Count)
}

func TestReportServiceFinancialYearBounds(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	payments := &fakeReportPayments{}
	svc := NewReportService(&fakeReportStudents{}, &fakeReportLessons{}, payments, nil, nil, time.Minute, time.Minute)
	svc.now = func() time.Time { return now }

	report, err := svc.Financial(context.Background(), "t1", ReportRangeYear)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), payments.from)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), payments.to)
	assert.Len(t, report.DailyIncomeData, 365)
}

func TestReportServiceStudentProgress(t *testing.T) {
	students := &fakeReportStudents{student: &models.Student{ID: "s1", TeacherID: "t1", FullName: "Ada", Grade: "9"}}
	lessons := &fakeReportLessons{byStudent: []models.Lesson{
		{Subject: "math", DayOfWeek: "monday", StartTime: "10:00", Status: statusPtr(models.LessonStatusCompleted)},
		{Subject: "math", DayOfWeek: "wednesday", StartTime: "14:00", Status: statusPtr(models.LessonStatusCompleted)},
		{Subject: "math", DayOfWeek: "friday", StartTime: "16:00"},
	}}

	svc := NewReportService(students, lessons, &fakeReportPayments{}, nil, nil, time.Minute, time.Minute)
	report, err := svc.StudentProgress(context.Background(), "t1", "s1")
	require.NoError(t, err)

	assert.Equal(t, "Ada", report.StudentName)
	assert.Equal(t, 3, report.TotalLessons)
	assert.Equal(t, 2, report.CompletedLessons)
	assert.Equal(t, 67, report.Progress)
	assert.Equal(t, 3, report.TotalHours)
	require.Len(t, report.Lessons, 3)
	assert.Equal(t, "monday 10:00", report.Lessons[0].Date)
	assert.Equal(t, "scheduled", report.Lessons[2].Status)
}

func TestReportServiceStudentProgressForbidden(t *testing.T) {
	students := &fakeReportStudents{student: &models.Student{ID: "s1", TeacherID: "other"}}
	svc := NewReportService(students, &fakeReportLessons{}, &fakeReportPayments{}, nil, nil, time.Minute, time.Minute)

	_, err := svc.StudentProgress(context.Background(), "t1", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReportServiceStudentProgressNoLessons(t *testing.T) {
	students := &fakeReportStudents{student: &models.Student{ID: "s1", TeacherID: "t1"}}
	svc := NewReportService(students, &fakeReportLessons{}, &fakeReportPayments{}, nil, nil, time.Minute, time.Minute)

	report, err := svc.StudentProgress(context.Background(), "t1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Progress)
	assert.Equal(t, 0, report.TotalHours)
}
