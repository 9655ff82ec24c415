package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldData     = "data"
	fieldCachedAt = "cached_at"
)

// RedisClient wraps a cluster client. Cached values live in a hash so the write time
// travels with the payload; registries are plain sets of cache keys.
type RedisClient struct {
	client     *redis.ClusterClient
	defaultTTL time.Duration
}

func NewRedisClient(addrs []string, poolSize int, defaultTTL time.Duration) *RedisClient {
	client := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs: addrs,

		PoolSize:     poolSize,
		MinIdleConns: 10,
		MaxRedirects: 3,

		// a slow cache must never be slower than postgres
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	return &RedisClient{client: client, defaultTTL: defaultTTL}
}

// GetKey returns the cached payload. A miss is ("", false, nil).
func (rc *RedisClient) GetKey(ctx context.Context, key string) (string, bool, error) {
	value, err := rc.client.HGet(ctx, key, fieldData).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetWithRegistry stores the payload and adds its key to every registry set, so the key
// can later be found from any entity it contains.
func (rc *RedisClient) SetWithRegistry(ctx context.Context, cacheKey string, cacheValue string, registryKeys []string) error {
	pipe := rc.client.Pipeline()

	pipe.HSet(ctx, cacheKey, fieldData, cacheValue, fieldCachedAt, time.Now().Unix())
	pipe.Expire(ctx, cacheKey, rc.defaultTTL)

	for _, registryKey := range registryKeys {
		pipe.SAdd(ctx, registryKey, cacheKey)
		pipe.Expire(ctx, registryKey, rc.defaultTTL)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// GetMultipleSetMembers reads several registry sets in one round trip. Missing sets map to
// an empty slice.
func (rc *RedisClient) GetMultipleSetMembers(ctx context.Context, keys []string) (map[string][]string, error) {
	pipe := rc.client.Pipeline()

	cmds := make(map[string]*redis.StringSliceCmd, len(keys))
	for _, key := range keys {
		cmds[key] = pipe.SMembers(ctx, key)
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	members := make(map[string][]string, len(keys))
	for key, cmd := range cmds {
		values, err := cmd.Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("smembers %s: %w", key, err)
		}
		members[key] = values
	}
	return members, nil
}

// InvalidateEntity deletes keys one by one; a multi-key DEL would cross hash slots.
func (rc *RedisClient) InvalidateEntity(ctx context.Context, keys []string) error {
	var failures []string

	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			failures = append(failures, fmt.Sprintf("key %s: %v", key, err))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("invalidation errors: %s", strings.Join(failures, "; "))
	}
	return nil
}

func (rc *RedisClient) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}
