package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/export"
)

// Document kinds tracked by the render metrics.
const (
	DocumentInvoice  = "invoice"
	DocumentReport   = "student_report"
	DocumentSchedule = "schedule"
	DocumentLedger   = "payment_ledger"
	DocumentBundle   = "data_bundle"
)

type exportLessonRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Lesson, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error)
}

// ExportDocument is a rendered download: bytes plus HTTP metadata.
type ExportDocument struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders invoices, progress reports, timetables and the
// full data bundle.
type ExportService struct {
	teachers  *TeacherService
	students  *StudentService
	payments  *PaymentService
	schedule  *ScheduleService
	reports   *ReportService
	settings  *SettingsService
	lessons   exportLessonRepository
	pdf       *export.PDFExporter
	csv       *export.CSVExporter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService instance.
func NewExportService(teachers *TeacherService, students *StudentService, payments *PaymentService, schedule *ScheduleService, reports *ReportService, settings *SettingsService, lessons exportLessonRepository, pdf *export.PDFExporter, csv *export.CSVExporter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		teachers:  teachers,
		students:  students,
		payments:  payments,
		schedule:  schedule,
		reports:   reports,
		settings:  settings,
		lessons:   lessons,
		pdf:       pdf,
		csv:       csv,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Invoice bills a student's completed lessons whose completion falls in
// the requested period. Every lesson is billed as one hour at its rate.
func (s *ExportService) Invoice(ctx context.Context, userID string, req dto.InvoiceRequest) (*ExportDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid invoice payload")
	}

	profile, err := s.teachers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	student, err := s.students.Get(ctx, profile.ID, req.StudentID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessons.ListByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	data := export.InvoiceData{
		StudentName: student.FullName,
		TeacherName: profile.FullName,
		Signature:   req.Signature,
	}
	for _, lesson := range lessons {
		if lesson.IsScheduled() || *lesson.Status != models.LessonStatusCompleted {
			continue
		}
		if lesson.UpdatedAt.Before(req.From) || !lesson.UpdatedAt.Before(req.To) {
			continue
		}
		data.Lessons = append(data.Lessons, export.InvoiceLine{
			Date:     lesson.DayOfWeek,
			Time:     lesson.StartTime,
			Subject:  lesson.Subject,
			Duration: 1,
			Price:    lesson.PricePerHour,
		})
	}

	payload, err := s.pdf.RenderInvoice(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render invoice")
	}

	s.metrics.RecordDocumentRender(DocumentInvoice)
	return &ExportDocument{
		Filename:    export.Filename("invoice "+student.FullName, s.now(), "pdf"),
		ContentType: "application/pdf",
		Payload:     payload,
	}, nil
}

// StudentReport renders the progress document for one student.
func (s *ExportService) StudentReport(ctx context.Context, userID string, req dto.StudentReportRequest) (*ExportDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	profile, err := s.teachers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.reports.StudentProgress(ctx, profile.ID, req.StudentID)
	if err != nil {
		return nil, err
	}

	data := export.StudentReportData{
		StudentName:      progress.StudentName,
		Grade:            progress.Grade,
		TeacherName:      profile.FullName,
		TotalLessons:     progress.TotalLessons,
		CompletedLessons: progress.CompletedLessons,
		Progress:         progress.Progress,
		TotalHours:       progress.TotalHours,
		Evaluation:       req.Evaluation,
		Signature:        req.Signature,
	}
	for _, lesson := range progress.Lessons {
		data.Lessons = append(data.Lessons, export.ReportLesson{
			Date:    lesson.Date,
			Subject: lesson.Subject,
			Status:  lesson.Status,
		})
	}

	payload, err := s.pdf.RenderStudentReport(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	s.metrics.RecordDocumentRender(DocumentReport)
	return &ExportDocument{
		Filename:    export.Filename("report "+progress.StudentName, s.now(), "pdf"),
		ContentType: "application/pdf",
		Payload:     payload,
	}, nil
}

// Schedule renders the teacher's weekly timetable.
func (s *ExportService) Schedule(ctx context.Context, userID string) (*ExportDocument, error) {
	profile, err := s.teachers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	grid, err := s.schedule.Grid(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	data := export.ScheduleGridData{
		Days:  grid.Days,
		Slots: grid.TimeSlots,
		Cells: make([][]string, 0, len(grid.TimeSlots)),
	}
	for _, slot := range grid.TimeSlots {
		data.Cells = append(data.Cells, grid.Cells[slot])
	}

	payload, err := s.pdf.RenderSchedule(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule")
	}

	s.metrics.RecordDocumentRender(DocumentSchedule)
	return &ExportDocument{
		Filename:    export.Filename("schedule", s.now(), "pdf"),
		ContentType: "application/pdf",
		Payload:     payload,
	}, nil
}

// PaymentLedger exports the payment list as CSV.
func (s *ExportService) PaymentLedger(ctx context.Context, userID string, filter models.PaymentFilter) (*ExportDocument, error) {
	profile, err := s.teachers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.List(ctx, profile.ID, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"date", "student", "amount", "method", "status", "description"},
	}
	for _, payment := range payments {
		var description string
		if payment.Description != nil {
			description = *payment.Description
		}
		data.Rows = append(data.Rows, map[string]string{
			"date":        payment.PaymentDate.Format("2006-01-02"),
			"student":     payment.StudentName,
			"amount":      fmt.Sprintf("%.2f", payment.Amount),
			"method":      payment.PaymentMethod,
			"status":      payment.Status,
			"description": description,
		})
	}

	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render ledger")
	}

	s.metrics.RecordDocumentRender(DocumentLedger)
	return &ExportDocument{
		Filename:    export.Filename("payments", s.now(), "csv"),
		ContentType: "text/csv",
		Payload:     payload,
	}, nil
}

// dataBundle is the JSON shape of the full data export.
type dataBundle struct {
	ExportedAt time.Time              `json:"exported_at"`
	Teacher    *models.TeacherProfile `json:"teacher"`
	Students   []models.Student       `json:"students,omitempty"`
	Lessons    []models.LessonDetail  `json:"lessons,omitempty"`
	Payments   []models.PaymentDetail `json:"payments,omitempty"`
}

// DataBundle exports everything the user's export settings allow as a
// single JSON document.
func (s *ExportService) DataBundle(ctx context.Context, userID string) (*ExportDocument, error) {
	profile, err := s.teachers.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	bundle := dataBundle{ExportedAt: s.now(), Teacher: profile}

	if prefs.DataExport.IncludeStudents {
		students, err := s.students.List(ctx, profile.ID, models.StudentFilter{})
		if err != nil {
			return nil, err
		}
		bundle.Students = students
	}
	if prefs.DataExport.IncludeLessons {
		lessons, err := s.lessons.ListByTeacher(ctx, profile.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
		}
		bundle.Lessons = lessons
	}
	if prefs.DataExport.IncludePayments {
		payments, err := s.payments.List(ctx, profile.ID, models.PaymentFilter{})
		if err != nil {
			return nil, err
		}
		bundle.Payments = payments
	}

	payload, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode data bundle")
	}

	s.metrics.RecordDocumentRender(DocumentBundle)
	return &ExportDocument{
		Filename:    export.Filename("tutor data", s.now(), "json"),
		ContentType: "application/json",
		Payload:     payload,
	}, nil
}
