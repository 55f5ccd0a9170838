package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/logger"
)

// TokenRefresher renews expired access tokens. Refresh is non-reentrant per
// account: most platforms invalidate the old refresh token on use, so two
// racing refreshes would revoke each other. A singleflight group collapses
// concurrent callers in-process and an optional distributed lock serialises
// across instances; losers re-read the account instead of re-refreshing.
type TokenRefresher struct {
	accounts repository.ISocialAccount
	resolver *CredentialResolver
	registry IntegrationRegistry
	lock     repository.IRefreshLock // nil when redis is unavailable
	group    singleflight.Group
}

func NewTokenRefresher(accounts repository.ISocialAccount, resolver *CredentialResolver, registry IntegrationRegistry, lock repository.IRefreshLock) *TokenRefresher {
	return &TokenRefresher{accounts: accounts, resolver: resolver, registry: registry, lock: lock}
}

var errReauthRequired = model.NewPublishError(model.ErrKindReauthRequired,
	"the connected account needs to be reauthorized, reconnect it from settings")

// EnsureFresh returns an account whose access token is usable right now,
// refreshing it when needed. A non-expired token is a no-op: no network
// call, no record mutation. A failed refresh deactivates the account so
// later publish attempts fail fast with a reauthorize error.
func (r *TokenRefresher) EnsureFresh(ctx context.Context, account *model.SocialAccount) (*model.SocialAccount, error) {
	if !account.Active {
		return nil, errReauthRequired
	}
	now := time.Now()
	if !account.TokenExpired(now) {
		return nil, nil // caller keeps using the account as-is
	}
	if !account.CanRefresh() {
		return nil, errReauthRequired
	}

	v, err, _ := r.group.Do(fmt.Sprintf("account:%d", account.ID), func() (interface{}, error) {
		return r.refreshLocked(ctx, account.ID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.SocialAccount), nil
}

// EnsureFreshAccount is EnsureFresh normalised to always return an account.
func (r *TokenRefresher) EnsureFreshAccount(ctx context.Context, account *model.SocialAccount) (*model.SocialAccount, error) {
	fresh, err := r.EnsureFresh(ctx, account)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return account, nil
	}
	return fresh, nil
}

func (r *TokenRefresher) refreshLocked(ctx context.Context, accountID int64) (*model.SocialAccount, error) {
	key := fmt.Sprintf("%d", accountID)
	if r.lock != nil {
		acquired, err := r.lock.Acquire(ctx, key)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("refresh lock unavailable, proceeding without it")
		} else if !acquired {
			return r.awaitPeerRefresh(ctx, accountID)
		} else {
			defer func() {
				if err := r.lock.Release(context.Background(), key); err != nil {
					logger.GetLogger().WithField("error", err).Warn("refresh lock release failed")
				}
			}()
		}
	}

	// Re-read under the lock: another instance may have refreshed already.
	account, err := r.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, errReauthRequired
	}
	now := time.Now()
	if !account.TokenExpired(now) {
		return account, nil
	}
	if !account.CanRefresh() {
		return nil, errReauthRequired
	}

	integration, err := r.registry.Get(account.Platform)
	if err != nil {
		return nil, err
	}
	creds, err := r.resolver.ResolveRequired(ctx, account.Platform)
	if err != nil {
		return nil, err
	}

	result, err := integration.Refresh(ctx, creds, account.RefreshToken)
	if err != nil {
		// The refresh token is assumed revoked; a deactivated account fails
		// fast with a reauthorize error instead of retrying the refresh.
		logger.GetLogger().
			WithField("account_id", account.ID).
			WithField("platform", account.Platform).
			Warn("token refresh rejected, deactivating account")
		if deactivateErr := r.accounts.Deactivate(ctx, account.ID, account.UserID); deactivateErr != nil {
			logger.GetLogger().WithField("error", deactivateErr).Error("could not deactivate account after failed refresh")
		}
		return nil, errReauthRequired
	}

	// Some platforms omit a new refresh token; keep the old one.
	refreshToken := result.RefreshToken
	if refreshToken == "" {
		refreshToken = account.RefreshToken
	}
	expiry := result.ExpiryFrom(now)
	if err := r.accounts.UpdateTokens(ctx, account.ID, result.AccessToken, refreshToken, &expiry); err != nil {
		return nil, err
	}

	account.AccessToken = result.AccessToken
	account.RefreshToken = refreshToken
	account.TokenExpiresAt = &expiry
	return account, nil
}

// awaitPeerRefresh polls for the outcome of a refresh running on another
// instance instead of racing a second refresh against the platform.
func (r *TokenRefresher) awaitPeerRefresh(ctx context.Context, accountID int64) (*model.SocialAccount, error) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.NewTimer(5 * time.Second)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, model.NewPublishError(model.ErrKindUnknown, "token refresh timed out").WithDetail(ctx.Err().Error())
		case <-deadline.C:
			return nil, model.NewPublishError(model.ErrKindUnknown, "token refresh is in progress elsewhere, retry shortly")
		case <-ticker.C:
			account, err := r.accounts.GetByID(ctx, accountID)
			if err != nil {
				return nil, err
			}
			if !account.Active {
				return nil, errReauthRequired
			}
			if !account.TokenExpired(time.Now()) {
				return account, nil
			}
		}
	}
}
