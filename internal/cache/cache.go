package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix    = "user:%d"
	revokedKeyPrefix = "revoked:%s"
)

// UserTTL bounds how long a cached user row may be served.
const UserTTL = 5 * time.Minute

// UserKey is the cache key of a user row.
func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// RevokedKey is the blacklist key of a token id.
func RevokedKey(jti string) string {
	return fmt.Sprintf(revokedKeyPrefix, jti)
}

// Cache is a nil-safe wrapper over a Redis client. A Cache with no client
// misses on every read and drops every write.
type Cache struct {
	client *redis.Client
}

// New wraps client, which may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on a miss it calls fetch (which must populate dest)
// and stores the result with ttl. Redis failures fall through to fetch.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate removes key.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c.Enabled() {
		c.client.Del(ctx, key)
	}
}

// Revoke blacklists a token id until ttl elapses.
func (c *Cache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if !c.Enabled() || jti == "" || ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, RevokedKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token id has been blacklisted.
// Lookup failures are treated as not revoked.
func (c *Cache) IsRevoked(ctx context.Context, jti string) bool {
	if !c.Enabled() || jti == "" {
		return false
	}
	n, err := c.client.Exists(ctx, RevokedKey(jti)).Result()
	return err == nil && n > 0
}

// Ping checks connectivity; a disabled cache reports redis.ErrClosed.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return redis.ErrClosed
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
