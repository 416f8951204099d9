package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository stores refresh tokens by hash only.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time, session SessionTrackingRequest) error
	// FindActiveUser returns the owner of an unrevoked, unexpired token, or
	// ErrRefreshTokenRevoked.
	FindActiveUser(ctx context.Context, token string) (userID string, err error)
	Revoke(ctx context.Context, token string) error
}
