package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/service"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/response"
)

// maxResourceBytes caps resource uploads at 20 MiB.
const maxResourceBytes = 20 << 20

// SubjectHandler exposes the subject catalog and resource endpoints.
type SubjectHandler struct {
	subjects *service.SubjectService
}

// NewSubjectHandler constructs SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// List godoc
// @Summary List catalog subjects
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.subjects.ListSubjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Create godoc
// @Summary Add a catalog subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.subjects.CreateSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Delete godoc
// @Summary Delete a subject and its resources
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Success 204
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.subjects.DeleteSubject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListResources godoc
// @Summary List lesson resources
// @Tags Subjects
// @Produce json
// @Param subject query string false "Filter by subject ID"
// @Success 200 {object} response.Envelope
// @Router /resources [get]
func (h *SubjectHandler) ListResources(c *gin.Context) {
	resources, err := h.subjects.ListResources(c.Request.Context(), c.Query("subject"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resources, nil)
}

// CreateResource godoc
// @Summary Attach a resource to a subject
// @Tags Subjects
// @Accept multipart/form-data
// @Produce json
// @Param subject_id formData string true "Subject ID"
// @Param title formData string true "Resource title"
// @Param description formData string false "Description"
// @Param tags formData string false "Comma-separated tags"
// @Param file formData file false "Resource file"
// @Success 201 {object} response.Envelope
// @Router /resources [post]
func (h *SubjectHandler) CreateResource(c *gin.Context) {
	req := dto.CreateResourceRequest{
		SubjectID: c.PostForm("subject_id"),
		Title:     c.PostForm("title"),
	}
	if description := c.PostForm("description"); description != "" {
		req.Description = &description
	}
	if tags := c.PostForm("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				req.Tags = append(req.Tags, tag)
			}
		}
	}

	var filename string
	var data []byte
	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		data, err = io.ReadAll(io.LimitReader(file, maxResourceBytes+1))
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
			return
		}
		if len(data) > maxResourceBytes {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "resource exceeds the size limit"))
			return
		}
		filename = header.Filename
	}

	resource, err := h.subjects.CreateResource(c.Request.Context(), req, filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resource)
}

// DownloadResource godoc
// @Summary Download a resource file
// @Tags Subjects
// @Produce octet-stream
// @Param id path string true "Resource ID"
// @Success 200 {file} binary
// @Router /resources/{id}/download [get]
func (h *SubjectHandler) DownloadResource(c *gin.Context) {
	resource, data, err := h.subjects.ReadResourceFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, resource.Title, "application/octet-stream", data)
}

// DeleteResource godoc
// @Summary Delete a resource
// @Tags Subjects
// @Param id path string true "Resource ID"
// @Success 204
// @Router /resources/{id} [delete]
func (h *SubjectHandler) DeleteResource(c *gin.Context) {
	if err := h.subjects.DeleteResource(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
