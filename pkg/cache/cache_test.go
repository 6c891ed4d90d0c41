package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_SetGetDelete(t *testing.T) {
	mr, client := newMiniRedis(t)
	c := NewRedis[string, snapshot](client, Options{Namespace: "user", TTL: time.Minute})
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, "u1", snapshot{ID: "u1", Username: "alice"})
	assert.True(t, mr.Exists("tuneboxd:user:u1"))

	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	c.Delete(ctx, "u1")
	_, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestRedis_Expiry(t *testing.T) {
	mr, client := newMiniRedis(t)
	c := NewRedis[string, int64](client, Options{Namespace: "count", TTL: time.Second})
	ctx := context.Background()

	c.Set(ctx, "followers:u1", 42)
	mr.FastForward(2 * time.Second)

	_, ok := c.Get(ctx, "followers:u1")
	assert.False(t, ok)
}

func TestRedis_GetMany(t *testing.T) {
	_, client := newMiniRedis(t)
	c := NewRedis[string, snapshot](client, Options{Namespace: "user", TTL: time.Minute})
	ctx := context.Background()

	c.Set(ctx, "a", snapshot{ID: "a"})
	c.Set(ctx, "c", snapshot{ID: "c"})

	got := c.GetMany(ctx, []string{"a", "b", "c"})
	assert.Len(t, got, 2)
	assert.Equal(t, "c", got["c"].ID)
}

func TestRedis_BackendDownIsMiss(t *testing.T) {
	mr, client := newMiniRedis(t)
	c := NewRedis[string, int](client, Options{Namespace: "x", TTL: time.Minute})
	mr.Close()

	ctx := context.Background()
	c.Set(ctx, "k", 1)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestLRU(t *testing.T) {
	c := NewLRU[string, int](Options{Namespace: "lru", TTL: time.Minute, Size: 2})
	ctx := context.Background()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Set(ctx, "c", 3)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry evicted")
	v, ok := c.Get(ctx, "c")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	c.Delete(ctx, "b", "c")
	assert.Equal(t, 0, c.Len())
}

func TestNew_FallsBackToLRU(t *testing.T) {
	c := New[string, int](nil, Options{Namespace: "n", TTL: time.Minute})
	_, isLRU := c.(*LRU[string, int])
	assert.True(t, isLRU)

	var noop Cache[string, int] = Noop[string, int]{}
	noop.Set(context.Background(), "k", 1)
	_, ok := noop.Get(context.Background(), "k")
	assert.False(t, ok)
}
