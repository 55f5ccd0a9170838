package persistence

import (
	"context"
	"database/sql"
	"time"

	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/crypto"
)

// Verify interface compliance
var _ repository.ISocialAccount = (*SocialAccountRepository)(nil)

// SocialAccountRepository stores connected accounts with tokens encrypted at
// the repository boundary: every write seals, every read opens.
type SocialAccountRepository struct {
	db     *sql.DB
	cipher *crypto.TokenCipher
}

func NewSocialAccountRepository(db *sql.DB, cipher *crypto.TokenCipher) *SocialAccountRepository {
	return &SocialAccountRepository{db: db, cipher: cipher}
}

func (r *SocialAccountRepository) Upsert(ctx context.Context, acc *model.SocialAccount) (*model.SocialAccount, error) {
	encAccess, err := r.cipher.Encrypt(acc.AccessToken)
	if err != nil {
		return nil, err
	}
	encRefresh, err := r.cipher.Encrypt(acc.RefreshToken)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	q := `INSERT INTO social_accounts (user_id, platform, account_name, access_token, refresh_token, token_expires_at, active, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,TRUE,$7,$7)
		  ON CONFLICT (user_id, platform, account_name) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			token_expires_at=EXCLUDED.token_expires_at,
			active=TRUE,
			updated_at=EXCLUDED.updated_at
		  RETURNING id, created_at, updated_at`
	stored := *acc
	err = r.db.QueryRowContext(ctx, q,
		acc.UserID, acc.Platform, acc.AccountName, encAccess, encRefresh, acc.TokenExpiresAt, now,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	stored.Active = true
	return &stored, nil
}

func (r *SocialAccountRepository) GetByID(ctx context.Context, id int64) (*model.SocialAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, platform, account_name, access_token, refresh_token, token_expires_at, active, created_at, updated_at
		FROM social_accounts WHERE id=$1`, id)
	acc := &model.SocialAccount{}
	var encAccess, encRefresh string
	var expires sql.NullTime
	err := row.Scan(&acc.ID, &acc.UserID, &acc.Platform, &acc.AccountName, &encAccess, &encRefresh, &expires, &acc.Active, &acc.CreatedAt, &acc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, model.NewPublishError(model.ErrKindNotFound, "social account not found")
	}
	if err != nil {
		return nil, err
	}
	if expires.Valid {
		t := expires.Time
		acc.TokenExpiresAt = &t
	}
	if acc.AccessToken, err = r.cipher.Decrypt(encAccess); err != nil {
		return nil, err
	}
	if acc.RefreshToken, err = r.cipher.Decrypt(encRefresh); err != nil {
		return nil, err
	}
	return acc, nil
}

func (r *SocialAccountRepository) List(ctx context.Context, userID string) ([]*model.SocialAccountSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, platform, account_name, active, created_at
		FROM social_accounts WHERE user_id=$1 AND active=TRUE ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.SocialAccountSummary
	for rows.Next() {
		s := &model.SocialAccountSummary{}
		if err := rows.Scan(&s.ID, &s.Platform, &s.AccountName, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SocialAccountRepository) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt *time.Time) error {
	encAccess, err := r.cipher.Encrypt(accessToken)
	if err != nil {
		return err
	}
	encRefresh, err := r.cipher.Encrypt(refreshToken)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE social_accounts SET access_token=$1, refresh_token=$2, token_expires_at=$3, updated_at=$4 WHERE id=$5`,
		encAccess, encRefresh, expiresAt, time.Now().UTC(), id)
	return err
}

// Deactivate soft-deletes after an ownership check. Publish history rows are
// never hard-deleted by this path.
func (r *SocialAccountRepository) Deactivate(ctx context.Context, id int64, requestingUserID string) error {
	var ownerID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM social_accounts WHERE id=$1`, id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return model.NewPublishError(model.ErrKindNotFound, "social account not found")
	}
	if err != nil {
		return err
	}
	if ownerID != requestingUserID {
		return model.NewPublishError(model.ErrKindForbidden, "account does not belong to requesting user")
	}
	_, err = r.db.ExecContext(ctx, `UPDATE social_accounts SET active=FALSE, updated_at=$1 WHERE id=$2`, time.Now().UTC(), id)
	return err
}
