package dto

// UpdateProfileRequest is the payload for editing the teacher profile.
type UpdateProfileRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone"`
	Subject  *string `json:"subject"`
}
