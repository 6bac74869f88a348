package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tutorly/tutor-api/internal/middleware"
	"github.com/tutorly/tutor-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Teacher      *TeacherHandler
	Student      *StudentHandler
	Lesson       *LessonHandler
	Payment      *PaymentHandler
	Schedule     *ScheduleHandler
	Report       *ReportHandler
	Notification *NotificationHandler
	Subject      *SubjectHandler
	Settings     *SettingsHandler
	Export       *ExportHandler
}

// RegisterRoutes mounts the API under the prefix. Everything except
// auth requires a valid token.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	api := r.Group(prefix)

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	protected.GET("/profile", h.Teacher.Get)
	protected.PUT("/profile", h.Teacher.Update)
	protected.GET("/profile/stats", h.Teacher.Stats)
	protected.POST("/profile/avatar", h.Teacher.UploadAvatar)
	protected.DELETE("/profile/avatar", h.Teacher.RemoveAvatar)

	protected.GET("/students", h.Student.List)
	protected.POST("/students", h.Student.Create)
	protected.GET("/students/:id", h.Student.Get)
	protected.PUT("/students/:id", h.Student.Update)
	protected.DELETE("/students/:id", h.Student.Delete)

	protected.GET("/lessons", h.Lesson.List)
	protected.GET("/lessons/weekly", h.Lesson.Weekly)
	protected.POST("/lessons", h.Lesson.Create)
	protected.POST("/lessons/:id/complete", h.Lesson.Complete)
	protected.POST("/lessons/:id/postpone", h.Lesson.Postpone)
	protected.DELETE("/lessons/:id", h.Lesson.Delete)

	protected.GET("/payments", h.Payment.List)
	protected.POST("/payments", h.Payment.Create)
	protected.PUT("/payments/:id", h.Payment.Update)
	protected.DELETE("/payments/:id", h.Payment.Delete)

	protected.GET("/schedule", h.Schedule.Grid)
	protected.GET("/schedule/entries", h.Schedule.Entries)
	protected.POST("/schedule/entries", h.Schedule.CreateEntry)
	protected.DELETE("/schedule/entries/:id", h.Schedule.DeleteEntry)
	protected.GET("/schedule/slots", h.Schedule.TimeSlots)
	protected.PUT("/schedule/slots", h.Schedule.UpdateTimeSlots)

	protected.GET("/dashboard", h.Report.Dashboard)
	protected.GET("/reports/financial", h.Report.Financial)
	protected.GET("/reports/students/:id", h.Report.StudentProgress)

	protected.GET("/notifications", h.Notification.List)
	protected.POST("/notifications/:id/read", h.Notification.MarkRead)

	protected.GET("/subjects", h.Subject.List)
	protected.POST("/subjects", h.Subject.Create)
	protected.DELETE("/subjects/:id", h.Subject.Delete)
	protected.GET("/resources", h.Subject.ListResources)
	protected.POST("/resources", h.Subject.CreateResource)
	protected.GET("/resources/:id/download", h.Subject.DownloadResource)
	protected.DELETE("/resources/:id", h.Subject.DeleteResource)

	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", h.Settings.Update)

	protected.POST("/export/invoice", h.Export.Invoice)
	protected.POST("/export/report", h.Export.StudentReport)
	protected.GET("/export/schedule", h.Export.Schedule)
	protected.GET("/export/payments", h.Export.PaymentLedger)
	protected.GET("/export/data", h.Export.DataBundle)
}
