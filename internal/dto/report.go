package dto

// DashboardStats is the teacher's home-screen summary.
type DashboardStats struct {
	TotalStudents   int     `json:"total_students"`
	ActiveClasses   int     `json:"active_classes"`
	EstimatedIncome float64 `json:"estimated_income"`
	MonthlyIncome   float64 `json:"monthly_income"`
	SuccessRate     int     `json:"success_rate"`
}

// PaymentMethodBreakdown aggregates payments by method.
type PaymentMethodBreakdown struct {
	Method string  `json:"method"`
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
}

// SeriesPoint is one point of a daily or monthly income series.
type SeriesPoint struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// LessonStatusCount is one category of the fixed lesson-status series.
type LessonStatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// FinancialReport is the aggregate view for a month or year range.
type FinancialReport struct {
	Range             string                   `json:"range"`
	TotalIncome       float64                  `json:"total_income"`
	MonthlyIncome     float64                  `json:"monthly_income"`
	YearlyIncome      float64                  `json:"yearly_income"`
	TotalLessons      int                      `json:"total_lessons"`
	CompletedLessons  int                      `json:"completed_lessons"`
	TotalStudents     int                      `json:"total_students"`
	PaymentMethods    []PaymentMethodBreakdown `json:"payment_methods"`
	DailyIncomeData   []SeriesPoint            `json:"daily_income_data"`
	MonthlyIncomeData []SeriesPoint            `json:"monthly_income_data"`
	LessonStatusData  []LessonStatusCount      `json:"lesson_status_data"`
}

// StudentProgressLesson is one row of the per-lesson progress table.
type StudentProgressLesson struct {
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
}

// StudentProgressReport summarises one student's trajectory.
type StudentProgressReport struct {
	StudentID        string                  `json:"student_id"`
	StudentName      string                  `json:"student_name"`
	Grade            string                  `json:"grade"`
	TotalLessons     int                     `json:"total_lessons"`
	CompletedLessons int                     `json:"completed_lessons"`
	Progress         int                     `json:"progress"`
	TotalHours       int                     `json:"total_hours"`
	Lessons          []StudentProgressLesson `json:"lessons"`
}
