package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorly/tutor-api/internal/middleware"
	"github.com/tutorly/tutor-api/internal/models"
	"github.com/tutorly/tutor-api/internal/service"
	"github.com/tutorly/tutor-api/pkg/response"
)

type settingsRepoStub struct {
	raw      []byte
	upserted interface{}
}

func (s *settingsRepoStub) Find(context.Context, string) ([]byte, error) {
	if s.raw == nil {
		return nil, sql.ErrNoRows
	}
	return s.raw, nil
}

func (s *settingsRepoStub) Upsert(_ context.Context, _ string, settings interface{}) error {
	s.upserted = settings
	return nil
}

func newSettingsContext(t *testing.T, method string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, "/settings", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "user@example.com"})
	return c, w
}

func TestSettingsHandlerGetSeedsDefaults(t *testing.T) {
	repo := &settingsRepoStub{}
	handler := NewSettingsHandler(service.NewSettingsService(repo, nil))
	c, w := newSettingsContext(t, http.MethodGet, nil)

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.UserSettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.DefaultSettings(), envelope.Data)
	assert.NotNil(t, repo.upserted)
}

func TestSettingsHandlerGetUnauthorized(t *testing.T) {
	handler := NewSettingsHandler(service.NewSettingsService(&settingsRepoStub{}, nil))
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/settings", nil)
	c.Request = req

	handler.Get(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSettingsHandlerUpdate(t *testing.T) {
	repo := &settingsRepoStub{}
	handler := NewSettingsHandler(service.NewSettingsService(repo, nil))

	in := models.DefaultSettings()
	in.Theme.Mode = "dark"
	body, err := json.Marshal(in)
	require.NoError(t, err)
	c, w := newSettingsContext(t, http.MethodPut, body)

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	saved, ok := repo.upserted.(models.UserSettings)
	require.True(t, ok)
	assert.Equal(t, "dark", saved.Theme.Mode)
}

func TestSettingsHandlerUpdateInvalidBody(t *testing.T) {
	handler := NewSettingsHandler(service.NewSettingsService(&settingsRepoStub{}, nil))
	c, w := newSettingsContext(t, http.MethodPut, []byte(`{broken`))

	handler.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
}
