package redis

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LocalCache 基于 Redis 的阅读位置缓存
type LocalCache struct {
	client *Client
	prefix string
	ttl    time.Duration
}

// NewLocalCache 创建缓存；prefix 为空时不加前缀，ttl 为 0 时永不过期
func NewLocalCache(client *Client, prefix string, ttl time.Duration) *LocalCache {
	return &LocalCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *LocalCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get 读取缓存值
func (c *LocalCache) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "cache.Get",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, c.key(key)).Result()
	if err != nil {
		if IsNil(err) {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			return "", false, nil
		}
		span.RecordError(err)
		return "", false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	return val, true, nil
}

// Set 写入缓存值
func (c *LocalCache) Set(ctx context.Context, key string, value string) error {
	ctx, span := tracer.Start(ctx, "cache.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_ms", c.ttl.Milliseconds()),
		))
	defer span.End()

	if err := c.client.rdb.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// HealthCheck 健康检查
func (c *LocalCache) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}
