package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/service"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/response"
)

// LessonHandler exposes lesson lifecycle endpoints.
type LessonHandler struct {
	lessons  *service.LessonService
	teachers *service.TeacherService
}

// NewLessonHandler constructs LessonHandler.
func NewLessonHandler(lessons *service.LessonService, teachers *service.TeacherService) *LessonHandler {
	return &LessonHandler{lessons: lessons, teachers: teachers}
}

// List godoc
// @Summary List lessons ordered by start time
// @Tags Lessons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	lessons, err := h.lessons.List(c.Request.Context(), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// Weekly godoc
// @Summary List lessons grouped into weekday buckets
// @Tags Lessons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lessons/weekly [get]
func (h *LessonHandler) Weekly(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	buckets, err := h.lessons.ListWeekly(c.Request.Context(), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buckets, nil)
}

// Create godoc
// @Summary Schedule a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body dto.CreateLessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.lessons.Create(c.Request.Context(), profile.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Complete godoc
// @Summary Mark a lesson completed
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id}/complete [post]
func (h *LessonHandler) Complete(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	lesson, err := h.lessons.Complete(c.Request.Context(), profile.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Postpone godoc
// @Summary Postpone a lesson to a later date
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body dto.PostponeLessonRequest true "Postpone payload"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id}/postpone [post]
func (h *LessonHandler) Postpone(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.PostponeLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.lessons.Postpone(c.Request.Context(), profile.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Delete godoc
// @Summary Delete a lesson
// @Tags Lessons
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.lessons.Delete(c.Request.Context(), profile.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
