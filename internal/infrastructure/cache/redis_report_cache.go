// Package cache stores rendered reports in Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAPI is the subset of redis.Cmdable the cache uses.
type RedisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ReportCache implements application.ReportCache.
type ReportCache struct {
	client RedisAPI
	ttl    time.Duration
}

// NewRedisClient builds the shared client the way the rest of the services do.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewReportCache(client RedisAPI, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *ReportCache) Set(ctx context.Context, key string, data []byte) error {
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
