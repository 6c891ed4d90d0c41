package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
	"github.com/d60-Lab/tuneboxd/pkg/metrics"
)

// Redis JSON 编码存储；任何 redis 错误都按未命中处理
type Redis[K comparable, V any] struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
}

func NewRedis[K comparable, V any](client redis.UniversalClient, opts Options) *Redis[K, V] {
	return &Redis[K, V]{client: client, namespace: opts.Namespace, ttl: opts.TTL}
}

func (c *Redis[K, V]) key(k K) string {
	return fmt.Sprintf("tuneboxd:%s:%v", c.namespace, k)
}

func (c *Redis[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var out V
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache get failed", zap.String("cache", c.namespace), zap.Error(err))
		}
		metrics.ObserveCache(c.namespace, false)
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		metrics.ObserveCache(c.namespace, false)
		return out, false
	}
	metrics.ObserveCache(c.namespace, true)
	return out, true
}

func (c *Redis[K, V]) Set(ctx context.Context, key K, value V) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		logger.Warn("cache set failed", zap.String("cache", c.namespace), zap.Error(err))
	}
}

func (c *Redis[K, V]) Delete(ctx context.Context, keys ...K) {
	if len(keys) == 0 {
		return
	}
	ks := make([]string, len(keys))
	for i, k := range keys {
		ks[i] = c.key(k)
	}
	if err := c.client.Del(ctx, ks...).Err(); err != nil {
		logger.Warn("cache delete failed", zap.String("cache", c.namespace), zap.Error(err))
	}
}

// GetMany 批量读取，返回命中的部分
func (c *Redis[K, V]) GetMany(ctx context.Context, keys []K) map[K]V {
	out := make(map[K]V, len(keys))
	if len(keys) == 0 {
		return out
	}
	ks := make([]string, len(keys))
	for i, k := range keys {
		ks[i] = c.key(k)
	}
	vals, err := c.client.MGet(ctx, ks...).Result()
	if err != nil {
		logger.Warn("cache mget failed", zap.String("cache", c.namespace), zap.Error(err))
		return out
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			metrics.ObserveCache(c.namespace, false)
			continue
		}
		var item V
		if err := json.Unmarshal([]byte(str), &item); err == nil {
			out[keys[i]] = item
			metrics.ObserveCache(c.namespace, true)
		}
	}
	return out
}

// NewRedisClient 按配置连接 redis 并探活
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// New 根据 redis 是否可用选择实现
func New[K comparable, V any](client redis.UniversalClient, opts Options) Cache[K, V] {
	if client != nil {
		return NewRedis[K, V](client, opts)
	}
	return NewLRU[K, V](opts)
}
