package dto

// CreateStudentRequest is the payload for adding a student.
type CreateStudentRequest struct {
	FullName    string  `json:"full_name" validate:"required"`
	Grade       string  `json:"grade" validate:"required"`
	Phone       *string `json:"phone"`
	ParentName  *string `json:"parent_name"`
	ParentPhone *string `json:"parent_phone"`
}

// UpdateStudentRequest mirrors the create payload for edits.
type UpdateStudentRequest struct {
	FullName    string  `json:"full_name" validate:"required"`
	Grade       string  `json:"grade" validate:"required"`
	Phone       *string `json:"phone"`
	ParentName  *string `json:"parent_name"`
	ParentPhone *string `json:"parent_phone"`
}
