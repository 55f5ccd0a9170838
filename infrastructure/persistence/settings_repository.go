package persistence

import (
	"context"
	"database/sql"
	"time"

	"clipcast/domain/repository"
)

// Verify interface compliance
var _ repository.ISettings = (*SettingsRepository)(nil)

// SettingsRepository is the persisted key/value application-settings store.
// Values here override process configuration during credential resolution.
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key=$1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO app_settings (key, value, updated_at) VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		key, value, time.Now().UTC())
	return err
}

// Bootstrap inserts missing keys with empty values so operators can see what
// is settable. It never writes non-empty secrets.
func (r *SettingsRepository) Bootstrap(ctx context.Context, keys []string) error {
	now := time.Now().UTC()
	for _, key := range keys {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO app_settings (key, value, updated_at) VALUES ($1,'',$2)
			ON CONFLICT (key) DO NOTHING`, key, now); err != nil {
			return err
		}
	}
	return nil
}
