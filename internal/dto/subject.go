package dto

// CreateSubjectRequest is the payload for adding a catalog subject.
type CreateSubjectRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Objectives  []string `json:"objectives"`
}

// CreateResourceRequest is the metadata half of a resource upload. The
// file itself arrives as a separate multipart part and may be absent
// for link-only resources.
type CreateResourceRequest struct {
	SubjectID   string   `form:"subject_id" json:"subject_id" validate:"required,uuid"`
	Title       string   `form:"title" json:"title" validate:"required"`
	Description *string  `form:"description" json:"description"`
	Tags        []string `form:"tags" json:"tags"`
}
