package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tutorly/tutor-api/internal/middleware"
	"github.com/tutorly/tutor-api/internal/models"
	"github.com/tutorly/tutor-api/internal/service"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// teacherFromContext resolves the caller's teacher profile, creating it
// on first access.
func teacherFromContext(c *gin.Context, teachers *service.TeacherService) (*models.TeacherProfile, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials")
	}
	return teachers.GetProfile(c.Request.Context(), claims.UserID)
}
