package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

// Report range keys accepted by the financial report.
const (
	ReportRangeMonth = "month"
	ReportRangeYear  = "year"
)

type reportStudentRepository interface {
	CountByTeacher(ctx context.Context, teacherID string) (int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type reportLessonRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Lesson, error)
}

type reportPaymentRepository interface {
	ListByTeacherInRange(ctx context.Context, teacherID string, from, to time.Time) ([]models.Payment, error)
}

// ReportService derives dashboard and financial aggregates from raw
// lesson and payment rows.
type ReportService struct {
	students reportStudentRepository
	lessons  reportLessonRepository
	payments reportPaymentRepository
	cache    *CacheService
	logger   *zap.Logger

	dashboardTTL time.Duration
	reportTTL    time.Duration
	now          func() time.Time
}

// NewReportService constructs a ReportService instance.
func NewReportService(students reportStudentRepository, lessons reportLessonRepository, payments reportPaymentRepository, cache *CacheService, logger *zap.Logger, dashboardTTL, reportTTL time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		students:     students,
		lessons:      lessons,
		payments:     payments,
		cache:        cache,
		logger:       logger,
		dashboardTTL: dashboardTTL,
		reportTTL:    reportTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard returns the home-screen summary for the teacher.
func (s *ReportService) Dashboard(ctx context.Context, teacherID string) (*dto.DashboardStats, error) {
	cacheKey := fmt.Sprintf("reports:%s:dashboard", teacherID)
	var cached dto.DashboardStats
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	totalStudents, err := s.students.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	lessons, err := s.lessons.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	now := s.now()
	monthStart, monthEnd := monthBounds(now)
	payments, err := s.payments.ListByTeacherInRange(ctx, teacherID, monthStart, monthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}

	stats := buildDashboardStats(totalStudents, lessons, payments)
	if err := s.cache.Set(ctx, cacheKey, stats, s.dashboardTTL); err != nil {
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}
	return stats, nil
}

// buildDashboardStats derives the summary from raw rows. Active means a
// lesson with no status yet; the success rate compares completed
// lessons against completed plus active, rounded to a whole percent.
func buildDashboardStats(totalStudents int, lessons []models.LessonDetail, monthPayments []models.Payment) *dto.DashboardStats {
	stats := &dto.DashboardStats{TotalStudents: totalStudents}

	var completed int
	for _, lesson := range lessons {
		switch {
		case lesson.IsScheduled():
			stats.ActiveClasses++
		case *lesson.Status == models.LessonStatusCompleted:
			completed++
			stats.EstimatedIncome += lesson.PricePerHour
		}
	}

	for _, payment := range monthPayments {
		if payment.Status == models.PaymentStatusCompleted {
			stats.MonthlyIncome += payment.Amount
		}
	}

	if denom := completed + stats.ActiveClasses; denom > 0 {
		stats.SuccessRate = int(math.Round(100 * float64(completed) / float64(denom)))
	}
	return stats
}

// Financial builds the aggregate report over the current month or year.
func (s *ReportService) Financial(ctx context.Context, teacherID, rangeKind string) (*dto.FinancialReport, error) {
	if rangeKind != ReportRangeMonth && rangeKind != ReportRangeYear {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range must be month or year")
	}

	cacheKey := fmt.Sprintf("reports:%s:financial:%s", teacherID, rangeKind)
	var cached dto.FinancialReport
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	now := s.now()
	var from, to time.Time
	if rangeKind == ReportRangeMonth {
		from, to = monthBounds(now)
	} else {
		from, to = yearBounds(now)
	}

	payments, err := s.payments.ListByTeacherInRange(ctx, teacherID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	lessons, err := s.lessons.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	totalStudents, err := s.students.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	report := buildFinancialReport(rangeKind, now, from, to, payments, lessons, totalStudents)
	if err := s.cache.Set(ctx, cacheKey, report, s.reportTTL); err != nil {
		s.logger.Warn("failed to cache financial report", zap.Error(err))
	}
	return report, nil
}

func buildFinancialReport(rangeKind string, now, from, to time.Time, payments []models.Payment, lessons []models.LessonDetail, totalStudents int) *dto.FinancialReport {
	report := &dto.FinancialReport{
		Range:         rangeKind,
		TotalStudents: totalStudents,
	}

	monthStart, monthEnd := monthBounds(now)
	yearStart, yearEnd := yearBounds(now)

	methods := map[string]*dto.PaymentMethodBreakdown{}
	var methodOrder []string
	daily := map[string]float64{}
	monthly := make([]float64, 12)

	for _, payment := range payments {
		if payment.Status == models.PaymentStatusCompleted {
			report.TotalIncome += payment.Amount
			if inRange(payment.PaymentDate, monthStart, monthEnd) {
				report.MonthlyIncome += payment.Amount
			}
			if inRange(payment.PaymentDate, yearStart, yearEnd) {
				report.YearlyIncome += payment.Amount
				monthly[payment.PaymentDate.Month()-1] += payment.Amount
			}
			daily[payment.PaymentDate.Format("2006-01-02")] += payment.Amount
		}

		// Method breakdown counts every payment regardless of status.
		breakdown, ok := methods[payment.PaymentMethod]
		if !ok {
			breakdown = &dto.PaymentMethodBreakdown{Method: payment.PaymentMethod}
			methods[payment.PaymentMethod] = breakdown
			methodOrder = append(methodOrder, payment.PaymentMethod)
		}
		breakdown.Count++
		breakdown.Total += payment.Amount
	}

	report.PaymentMethods = make([]dto.PaymentMethodBreakdown, 0, len(methodOrder))
	for _, method := range methodOrder {
		report.PaymentMethods = append(report.PaymentMethods, *methods[method])
	}

	report.DailyIncomeData = make([]dto.SeriesPoint, 0)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		label := day.Format("2006-01-02")
		report.DailyIncomeData = append(report.DailyIncomeData, dto.SeriesPoint{Label: label, Amount: daily[label]})
	}

	report.MonthlyIncomeData = make([]dto.SeriesPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		report.MonthlyIncomeData = append(report.MonthlyIncomeData, dto.SeriesPoint{
			Label:  m.String()[:3],
			Amount: monthly[m-1],
		})
	}

	statusCounts := map[string]int{}
	for _, lesson := range lessons {
		report.TotalLessons++
		statusCounts[lesson.StatusLabel()]++
	}
	report.CompletedLessons = statusCounts[models.LessonStatusCompleted]
	report.LessonStatusData = []dto.LessonStatusCount{
		{Status: models.LessonStatusCompleted, Count: statusCounts[models.LessonStatusCompleted]},
		{Status: models.LessonStatusPostponed, Count: statusCounts[models.LessonStatusPostponed]},
		{Status: "scheduled", Count: statusCounts["scheduled"]},
	}

	return report
}

// StudentProgress summarises one student's lesson trajectory.
func (s *ReportService) StudentProgress(ctx context.Context, teacherID, studentID string) (*dto.StudentProgressReport, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "student not found")
	}
	if student.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another teacher")
	}

	lessons, err := s.lessons.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	report := &dto.StudentProgressReport{
		StudentID:   student.ID,
		StudentName: student.FullName,
		Grade:       student.Grade,
	}
	for _, lesson := range lessons {
		report.TotalLessons++
		if !lesson.IsScheduled() && *lesson.Status == models.LessonStatusCompleted {
			report.CompletedLessons++
		}
		report.Lessons = append(report.Lessons, dto.StudentProgressLesson{
			Date:    fmt.Sprintf("%s %s", lesson.DayOfWeek, lesson.StartTime),
			Subject: lesson.Subject,
			Status:  lesson.StatusLabel(),
		})
	}
	// Each lesson counts as one hour of tutoring.
	report.TotalHours = report.TotalLessons
	if report.TotalLessons > 0 {
		report.Progress = int(math.Round(100 * float64(report.CompletedLessons) / float64(report.TotalLessons)))
	}
	return report, nil
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}

func yearBounds(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(1, 0, 0)
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
