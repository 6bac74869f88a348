package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders business documents into PDF bytes.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderInvoice creates an invoice document with a lesson table and a
// grand total.
func (e *PDFExporter) RenderInvoice(data InvoiceData) ([]byte, error) {
	if data.StudentName == "" {
		return nil, fmt.Errorf("invoice requires a student name")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Student: %s", data.StudentName), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Teacher: %s", data.TeacherName), "", 1, "", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Date", "Time", "Subject", "Hours", "Rate", "Amount"}
	widths := []float64{30, 25, 60, 20, 25, 30}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, lesson := range data.Lessons {
		pdf.CellFormat(widths[0], 7, lesson.Date, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, lesson.Time, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[2], 7, lesson.Subject, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.1f", lesson.Duration), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%.2f", lesson.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, fmt.Sprintf("%.2f", lesson.Total()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3]+widths[4], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 8, fmt.Sprintf("%.2f", data.Total()), "1", 1, "R", false, 0, "")

	if data.Signature != "" {
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, data.Signature, "", 1, "R", false, 0, "")
	}

	return output(pdf)
}

// RenderStudentReport creates a progress report with summary figures,
// the lesson history and an evaluation block.
func (e *PDFExporter) RenderStudentReport(data StudentReportData) ([]byte, error) {
	if data.StudentName == "" {
		return nil, fmt.Errorf("report requires a student name")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "STUDENT PROGRESS REPORT", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Student: %s", data.StudentName), "", 1, "", false, 0, "")
	if data.Grade != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Grade: %s", data.Grade), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Teacher: %s", data.TeacherName), "", 1, "", false, 0, "")
	pdf.Ln(4)

	summary := []string{
		fmt.Sprintf("Lessons: %d", data.TotalLessons),
		fmt.Sprintf("Completed: %d", data.CompletedLessons),
		fmt.Sprintf("Progress: %d%%", data.Progress),
		fmt.Sprintf("Hours: %d", data.TotalHours),
	}
	pdf.SetFont("Arial", "B", 10)
	for _, cell := range summary {
		pdf.CellFormat(47.5, 8, cell, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(4)

	headers := []string{"Date", "Subject", "Status"}
	widths := []float64{40, 100, 50}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, lesson := range data.Lessons {
		pdf.CellFormat(widths[0], 7, lesson.Date, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, lesson.Subject, "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[2], 7, lesson.Status, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if data.Evaluation != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Evaluation", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, data.Evaluation, "", "", false)
	}

	if data.Signature != "" {
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, data.Signature, "", 1, "R", false, 0, "")
	}

	return output(pdf)
}

// RenderSchedule creates a weekly timetable in landscape, slots as
// rows and days as columns.
func (e *PDFExporter) RenderSchedule(data ScheduleGridData) ([]byte, error) {
	if len(data.Days) == 0 || len(data.Slots) == 0 {
		return nil, fmt.Errorf("schedule requires days and time slots")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "WEEKLY SCHEDULE", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	slotWidth := 25.0
	dayWidth := (277.0 - slotWidth) / float64(len(data.Days))

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(slotWidth, 8, "Time", "1", 0, "C", false, 0, "")
	for _, day := range data.Days {
		pdf.CellFormat(dayWidth, 8, titleCase(day), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i, slot := range data.Slots {
		pdf.CellFormat(slotWidth, 7, slot, "1", 0, "C", false, 0, "")
		for j := range data.Days {
			var cell string
			if i < len(data.Cells) && j < len(data.Cells[i]) {
				cell = data.Cells[i][j]
			}
			pdf.CellFormat(dayWidth, 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
