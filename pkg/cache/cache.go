// Package cache provides best-effort read caches. A miss or backend error is
// never fatal to the caller; it just falls through to the store.
package cache

import (
	"context"
	"time"
)

// Cache 泛型读缓存
type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V)
	Delete(ctx context.Context, keys ...K)
}

// Noop never stores anything.
type Noop[K comparable, V any] struct{}

func (Noop[K, V]) Get(context.Context, K) (V, bool) {
	var zero V
	return zero, false
}
func (Noop[K, V]) Set(context.Context, K, V)    {}
func (Noop[K, V]) Delete(context.Context, ...K) {}

// Options 构建缓存时的公共参数
type Options struct {
	Namespace string
	TTL       time.Duration
	Size      int
}
