package persistence

import "database/sql"

// EnsureSocialAccountSchema creates the social_accounts table. Tokens are
// stored as ciphertext text columns, never plaintext.
func EnsureSocialAccountSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS social_accounts (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		account_name TEXT NOT NULL,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL DEFAULT '',
		token_expires_at TIMESTAMPTZ,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, platform, account_name)
	)`)
	return err
}

// EnsureScheduledPostSchema creates the scheduled_posts table.
func EnsureScheduledPostSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS scheduled_posts (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		social_account_id BIGINT NOT NULL,
		video_id BIGINT NOT NULL,
		caption TEXT NOT NULL DEFAULT '',
		hashtags TEXT[] NOT NULL DEFAULT '{}',
		scheduled_for TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL,
		post_url TEXT,
		platform_post_id TEXT,
		failure_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_scheduled_posts_user_sched
		ON scheduled_posts (user_id, scheduled_for ASC)`)
	return err
}

// EnsureSettingsSchema creates the app_settings key/value table.
func EnsureSettingsSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS app_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL
	)`)
	return err
}

// EnsureVideoSchema creates the videos table read by the publish path. The
// upload subsystem owns its contents.
func EnsureVideoSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS videos (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		file_path TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT '',
		size_bytes BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	)`)
	return err
}
