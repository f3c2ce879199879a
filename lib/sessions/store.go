// Package sessions keeps short-lived auth state: revoked token ids and
// single-use password reset tokens.
package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned when a reset token is unknown, expired or already used
var ErrTokenNotFound = errors.New("reset token not found or expired")

// Store is implemented by the Redis and in-memory backends
type Store interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

const (
	revokedPrefix = "donely:revoked:"
	resetPrefix   = "donely:reset:"
)
