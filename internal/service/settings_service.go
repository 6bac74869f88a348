package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

type settingsRepository interface {
	Find(ctx context.Context, userID string) ([]byte, error)
	Upsert(ctx context.Context, userID string, settings interface{}) error
}

// SettingsService manages the per-user preference document.
type SettingsService struct {
	repo   settingsRepository
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(repo settingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// Get loads the user's settings. A missing row is seeded with the
// defaults; a partial row, written by an older version, is migrated to
// the complete shape and written back.
func (s *SettingsService) Get(ctx context.Context, userID string) (models.UserSettings, error) {
	raw, err := s.repo.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			defaults := models.DefaultSettings()
			if err := s.repo.Upsert(ctx, userID, defaults); err != nil {
				return defaults, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed settings")
			}
			return defaults, nil
		}
		return models.DefaultSettings(), appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}

	settings, err := models.MigrateSettings(raw)
	if err != nil {
		s.logger.Warn("settings document was unreadable, resetting to defaults", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.repo.Upsert(ctx, userID, settings); err != nil {
		s.logger.Warn("failed to persist migrated settings", zap.Error(err))
	}
	return settings, nil
}

// Update replaces the user's settings document.
func (s *SettingsService) Update(ctx context.Context, userID string, settings models.UserSettings) (models.UserSettings, error) {
	if err := s.repo.Upsert(ctx, userID, settings); err != nil {
		return settings, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	return settings, nil
}
