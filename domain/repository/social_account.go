package repository

import (
	"context"
	"time"

	"clipcast/domain/model"
)

// ISocialAccount persists connected platform accounts. Implementations
// encrypt tokens before every write and decrypt on read; callers only ever
// see plaintext in memory.
type ISocialAccount interface {
	// Upsert inserts or, when a record exists for the exact
	// (user, platform, accountName) triple, overwrites its tokens and
	// reactivates it. Returns the stored record.
	Upsert(ctx context.Context, acc *model.SocialAccount) (*model.SocialAccount, error)

	// GetByID returns the account with decrypted tokens, or
	// ErrKindNotFound when absent.
	GetByID(ctx context.Context, id int64) (*model.SocialAccount, error)

	// List returns active accounts for the user, secrets never included.
	List(ctx context.Context, userID string) ([]*model.SocialAccountSummary, error)

	// UpdateTokens replaces tokens and expiry after a successful refresh.
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt *time.Time) error

	// Deactivate soft-deletes the account. Fails with ErrKindForbidden when
	// requestingUserID does not own the record.
	Deactivate(ctx context.Context, id int64, requestingUserID string) error
}
