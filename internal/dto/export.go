package dto

import "time"

// InvoiceRequest selects the lessons billed on an invoice.
type InvoiceRequest struct {
	StudentID string    `json:"student_id" validate:"required,uuid"`
	From      time.Time `json:"from" validate:"required"`
	To        time.Time `json:"to" validate:"required,gtfield=From"`
	Signature string    `json:"signature"`
}

// StudentReportRequest selects a student for the progress document.
type StudentReportRequest struct {
	StudentID  string `json:"student_id" validate:"required,uuid"`
	Evaluation string `json:"evaluation"`
	Signature  string `json:"signature"`
}
