package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreFromClient(client), mr
}

var _ Store = (*RedisStore)(nil)

func TestRedisStoreRevocationExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.Revoke(ctx, "tok-1", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(revokedPrefix+"tok-1"))

	revoked, err := s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreRevokeIgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.Revoke(ctx, "tok-1", 0))
	assert.False(t, mr.Exists(revokedPrefix+"tok-1"))
}

func TestRedisStoreResetTokenSingleUse(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.SaveResetToken(ctx, "reset-1", "user-1", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(resetPrefix+"reset-1"))

	userID, err := s.ConsumeResetToken(ctx, "reset-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = s.ConsumeResetToken(ctx, "reset-1")
	assert.True(t, errors.Is(err, ErrTokenNotFound))
}

func TestRedisStoreResetTokenExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.SaveResetToken(ctx, "reset-1", "user-1", time.Minute))
	mr.FastForward(time.Hour)

	_, err := s.ConsumeResetToken(ctx, "reset-1")
	assert.True(t, errors.Is(err, ErrTokenNotFound))
}

func TestNewRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Revoke(ctx, "tok-1", time.Minute))
	assert.True(t, mr.Exists(revokedPrefix+"tok-1"))

	_, err = NewRedisStore(ctx, "not a url")
	assert.Error(t, err)
}
