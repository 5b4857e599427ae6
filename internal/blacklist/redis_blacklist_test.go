package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestBlacklist(t *testing.T) (*RedisBlacklist, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisBlacklist(client), mr
}

func TestRedisBlacklist_RevokeAndCheck(t *testing.T) {
	bl, _ := setupTestBlacklist(t)
	ctx := context.Background()

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "Unknown token should not be revoked")

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "Revocation should be per token")
}

func TestRedisBlacklist_EntryExpiresWithToken(t *testing.T) {
	bl, mr := setupTestBlacklist(t)
	ctx := context.Background()

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Now().Add(10*time.Minute)))
	assert.True(t, mr.Exists(keyPrefix+"jti-1"))

	mr.FastForward(11 * time.Minute)

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "Entry should disappear once the token expired")
}

func TestRedisBlacklist_AlreadyExpiredIsNoop(t *testing.T) {
	bl, mr := setupTestBlacklist(t)

	require.NoError(t, bl.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(keyPrefix+"old"))
}

func TestRedisBlacklist_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	bl := NewRedisBlacklist(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	mr.Close()

	err = bl.Revoke(context.Background(), "jti", time.Now().Add(time.Hour))
	assert.Error(t, err)

	_, err = bl.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
