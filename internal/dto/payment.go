package dto

import "time"

// CreatePaymentRequest is the payload for recording a payment.
type CreatePaymentRequest struct {
	StudentID     string    `json:"student_id" validate:"required,uuid"`
	Amount        float64   `json:"amount" validate:"required,gt=0"`
	PaymentDate   time.Time `json:"payment_date" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=cash credit_card bank_transfer other"`
	Status        string    `json:"status" validate:"required,oneof=pending completed cancelled"`
	Description   *string   `json:"description"`
}

// UpdatePaymentRequest mirrors the create payload for edits.
type UpdatePaymentRequest struct {
	Amount        float64   `json:"amount" validate:"required,gt=0"`
	PaymentDate   time.Time `json:"payment_date" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=cash credit_card bank_transfer other"`
	Status        string    `json:"status" validate:"required,oneof=pending completed cancelled"`
	Description   *string   `json:"description"`
}
