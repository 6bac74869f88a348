package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorly/tutor-api/internal/service"
	"github.com/tutorly/tutor-api/pkg/response"
)

// NotificationHandler exposes the reminder feed endpoints.
type NotificationHandler struct {
	notifications *service.NotificationService
	teachers      *service.TeacherService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService, teachers *service.TeacherService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, teachers: teachers}
}

// List godoc
// @Summary List the ten newest reminders
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	notifications, err := h.notifications.List(c.Request.Context(), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	unread, err := h.notifications.UnreadCount(c.Request.Context(), profile.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, nil, map[string]interface{}{"unread": unread})
}

// MarkRead godoc
// @Summary Mark one reminder as read
// @Tags Notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	profile, err := teacherFromContext(c, h.teachers)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), profile.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
