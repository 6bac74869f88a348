package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/service"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/response"
)

// ScheduleHandler exposes timetable endpoints.
type ScheduleHandler struct {
	schedule *service.ScheduleService
	teachers *service.TeacherService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService, teachers *service.TeacherService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, teachers: teachers}
}

// Grid godoc
// @Summary Render the weekly timetable grid
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Grid(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	grid, err := h.schedule.Grid(c.Request.Context(), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// Entries godoc
// @Summary List raw timetable entries
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/entries [get]
func (h *ScheduleHandler) Entries(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.schedule.ListEntries(c.Request.Context(), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// CreateEntry godoc
// @Summary Place a student into a timetable cell
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /schedule/entries [post]
func (h *ScheduleHandler) CreateEntry(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.schedule.CreateEntry(c.Request.Context(), profile.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// DeleteEntry godoc
// @Summary Remove a timetable entry
// @Tags Schedule
// @Param id path string true "Entry ID"
// @Success 204
// @Router /schedule/entries/{id} [delete]
func (h *ScheduleHandler) DeleteEntry(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schedule.DeleteEntry(c.Request.Context(), profile.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// TimeSlots godoc
// @Summary List the teacher's time slots
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/slots [get]
func (h *ScheduleHandler) TimeSlots(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	slots, err := h.schedule.TimeSlots(c.Request.Context(), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// UpdateTimeSlots godoc
// @Summary Replace the teacher's time slots
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.UpdateTimeSlotsRequest true "Slots payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/slots [put]
func (h *ScheduleHandler) UpdateTimeSlots(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateTimeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slots, err := h.schedule.UpdateTimeSlots(c.Request.Context(), profile.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
