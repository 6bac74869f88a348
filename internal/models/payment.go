package models

import "time"

// Payment methods accepted by the business.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodOther        = "other"
)

// Payment statuses. Only completed payments count toward income.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusCancelled = "cancelled"
)

// Payment belongs to one student; teacher scoping is transitive.
type Payment struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	Amount        float64   `db:"amount" json:"amount"`
	PaymentDate   time.Time `db:"payment_date" json:"payment_date"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Status        string    `db:"status" json:"status"`
	Description   *string   `db:"description" json:"description,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// PaymentDetail joins the student's name and grade onto a payment row.
type PaymentDetail struct {
	Payment
	StudentName  string `db:"student_name" json:"student_name"`
	StudentGrade string `db:"student_grade" json:"student_grade"`
}

// PaymentFilter encapsulates list parameters for payments.
type PaymentFilter struct {
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}
