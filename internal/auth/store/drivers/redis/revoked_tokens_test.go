package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/gatehouse/internal/auth/store/drivers/redis"
)

func newTestList(t *testing.T) (*redis.RevocationList, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewRevocationListFromClient(client), mr
}

func TestRevokeAndCheck(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "fp-1", time.Now().Add(time.Hour)))

	revoked, err = list.IsRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestRevokeIsIdempotent(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "fp-1", time.Now().Add(time.Hour)))
	require.NoError(t, list.Revoke(ctx, "fp-1", time.Now().Add(time.Hour)))

	revoked, err := list.IsRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestEntriesExpireWithTheToken(t *testing.T) {
	list, mr := newTestList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "fp-1", time.Now().Add(30*time.Second)))

	mr.FastForward(time.Minute)

	revoked, err := list.IsRevoked(ctx, "fp-1")
	require.NoError(t, err)
	require.False(t, revoked, "entry should lapse with the token's own expiry")
}

func TestRevokingAnAlreadyExpiredTokenIsANoOp(t *testing.T) {
	list, _ := newTestList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "fp-old", time.Now().Add(-time.Minute)))

	revoked, err := list.IsRevoked(ctx, "fp-old")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestPing(t *testing.T) {
	list, mr := newTestList(t)
	require.NoError(t, list.Ping(context.Background()))

	mr.Close()
	require.Error(t, list.Ping(context.Background()))
}
