package cache

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/d60-Lab/tuneboxd/pkg/metrics"
)

// LRU 进程内带过期的 LRU，redis 未启用时使用
type LRU[K comparable, V any] struct {
	name string
	lru  *expirable.LRU[K, V]
}

func NewLRU[K comparable, V any](opts Options) *LRU[K, V] {
	size := opts.Size
	if size <= 0 {
		size = 1024
	}
	return &LRU[K, V]{
		name: opts.Namespace,
		lru:  expirable.NewLRU[K, V](size, nil, opts.TTL),
	}
}

func (c *LRU[K, V]) Get(_ context.Context, key K) (V, bool) {
	v, ok := c.lru.Get(key)
	metrics.ObserveCache(c.name, ok)
	return v, ok
}

func (c *LRU[K, V]) Set(_ context.Context, key K, value V) {
	c.lru.Add(key, value)
}

func (c *LRU[K, V]) Delete(_ context.Context, keys ...K) {
	for _, k := range keys {
		c.lru.Remove(k)
	}
}

// Len reports the number of live entries.
func (c *LRU[K, V]) Len() int { return c.lru.Len() }
