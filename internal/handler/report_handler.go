package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorly/tutor-api/internal/service"
	"github.com/tutorly/tutor-api/pkg/response"
)

// ReportHandler exposes dashboard and report endpoints.
type ReportHandler struct {
	reports  *service.ReportService
	teachers *service.TeacherService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService, teachers *service.TeacherService) *ReportHandler {
	return &ReportHandler{reports: reports, teachers: teachers}
}

// Dashboard godoc
// @Summary Home-screen summary stats
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	stats, err := h.reports.Dashboard(c.Request.Context(), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Financial godoc
// @Summary Financial report for the current month or year
// @Tags Reports
// @Produce json
// @Param range query string false "month or year" default(month)
// @Success 200 {object} response.Envelope
// @Router /reports/financial [get]
func (h *ReportHandler) Financial(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Financial(c.Request.Context(), profile.ID, c.DefaultQuery("range", service.ReportRangeMonth))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// StudentProgress godoc
// @Summary Progress summary for one student
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /reports/students/{id} [get]
func (h *ReportHandler) StudentProgress(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.StudentProgress(c.Request.Context(), profile.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
