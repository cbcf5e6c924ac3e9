// Package redis provides a Redis-backed refresh-token revocation list for
// multi-instance deployments where the sqlite list would not be shared.
// Entries expire with the token's own lifetime via key TTLs, so there is no
// housekeeping to run.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gatehouse:revoked:"

// RevocationList implements store.RevokedTokens on Redis.
type RevocationList struct {
	client *redis.Client
}

func NewRevocationList(addr, password string, db int) *RevocationList {
	return &RevocationList{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewRevocationListFromClient wraps an existing client; used by tests.
func NewRevocationListFromClient(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func (l *RevocationList) Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past its natural expiry; signature validation will
		// reject it anyway.
		return nil
	}
	return l.client.Set(ctx, keyPrefix+fingerprint, 1, ttl).Err()
}

func (l *RevocationList) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	err := l.client.Get(ctx, keyPrefix+fingerprint).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired is a no-op: Redis key TTLs prune the list automatically.
func (l *RevocationList) DeleteExpired(ctx context.Context) error { return nil }

// Ping verifies connectivity for readiness checks.
func (l *RevocationList) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (l *RevocationList) Close() error { return l.client.Close() }
