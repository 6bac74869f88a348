package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SettingsRepository persists the per-user preference document.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Find returns the raw settings JSON for a user. sql.ErrNoRows means the
// row was never created; callers seed defaults in that case.
func (r *SettingsRepository) Find(ctx context.Context, userID string) ([]byte, error) {
	const query = `SELECT settings FROM user_settings WHERE user_id = $1`
	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, userID); err != nil {
		return nil, err
	}
	return raw, nil
}

// Upsert writes the complete settings document for a user.
func (r *SettingsRepository) Upsert(ctx context.Context, userID string, settings interface{}) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	const query = `INSERT INTO user_settings (user_id, settings, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, userID, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
