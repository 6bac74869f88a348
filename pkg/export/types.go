package export

import (
	"fmt"
	"strings"
	"time"
)

// InvoiceLine is one billed lesson on an invoice.
type InvoiceLine struct {
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Subject  string  `json:"subject"`
	Duration float64 `json:"duration"`
	Price    float64 `json:"price"`
}

// Total returns the line total, duration times hourly price.
func (l InvoiceLine) Total() float64 {
	return l.Duration * l.Price
}

// InvoiceData is the input of the invoice document transform.
type InvoiceData struct {
	StudentName string        `json:"student_name"`
	TeacherName string        `json:"teacher_name"`
	Signature   string        `json:"signature"`
	Lessons     []InvoiceLine `json:"lessons"`
}

// Total sums every line total.
func (d InvoiceData) Total() float64 {
	var total float64
	for _, lesson := range d.Lessons {
		total += lesson.Total()
	}
	return total
}

// ReportLesson is one row of the student report lesson table.
type ReportLesson struct {
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
}

// StudentReportData is the input of the student report transform.
type StudentReportData struct {
	StudentName      string         `json:"student_name"`
	Grade            string         `json:"grade"`
	TeacherName      string         `json:"teacher_name"`
	TotalLessons     int            `json:"total_lessons"`
	CompletedLessons int            `json:"completed_lessons"`
	Progress         int            `json:"progress"`
	TotalHours       int            `json:"total_hours"`
	Lessons          []ReportLesson `json:"lessons"`
	Evaluation       string         `json:"evaluation"`
	Signature        string         `json:"signature"`
}

// ScheduleGridData is the input of the timetable transform: one row per
// slot, one column per day, empty cells where nothing is planned.
type ScheduleGridData struct {
	Days  []string   `json:"days"`
	Slots []string   `json:"slots"`
	Cells [][]string `json:"cells"` // Cells[slotIndex][dayIndex]
}

// Filename derives a deterministic download name from an entity name
// and the current date.
func Filename(entity string, at time.Time, ext string) string {
	slug := strings.ToLower(strings.TrimSpace(entity))
	slug = strings.Join(strings.Fields(slug), "_")
	if slug == "" {
		slug = "export"
	}
	return fmt.Sprintf("%s_%s.%s", slug, at.Format("2006-01-02"), ext)
}
