package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	"github.com/tutorly/tutor-api/internal/service"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/response"
)

// ExportHandler exposes document and data export endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Invoice godoc
// @Summary Render an invoice PDF for a student's completed lessons
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Param payload body dto.InvoiceRequest true "Invoice payload"
// @Success 200 {file} binary
// @Router /export/invoice [post]
func (h *ExportHandler) Invoice(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	doc, err := h.exports.Invoice(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Payload)
}

// StudentReport godoc
// @Summary Render a student progress report PDF
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Param payload body dto.StudentReportRequest true "Report payload"
// @Success 200 {file} binary
// @Router /export/report [post]
func (h *ExportHandler) StudentReport(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.StudentReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	doc, err := h.exports.StudentReport(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Payload)
}

// Schedule godoc
// @Summary Render the weekly timetable PDF
// @Tags Export
// @Produce application/pdf
// @Success 200 {file} binary
// @Router /export/schedule [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	doc, err := h.exports.Schedule(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Payload)
}

// PaymentLedger godoc
// @Summary Export the payment list as CSV
// @Tags Export
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Router /export/payments [get]
func (h *ExportHandler) PaymentLedger(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := models.PaymentFilter{
		Status: c.Query("status"),
		Search: strings.TrimSpace(c.Query("search")),
	}
	doc, err := h.exports.PaymentLedger(c.Request.Context(), claims.UserID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Payload)
}

// DataBundle godoc
// @Summary Export all data allowed by the export settings as JSON
// @Tags Export
// @Produce json
// @Success 200 {file} binary
// @Router /export/data [get]
func (h *ExportHandler) DataBundle(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	doc, err := h.exports.DataBundle(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Payload)
}
