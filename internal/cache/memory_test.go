package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestMemoryClient_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(10)
	defer c.Close()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value := []byte("hello")
	require.NoError(t, c.Set(ctx, "k", value, time.Minute))
	value[0] = 'j'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got, "stored value must be a copy")

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := newMemoryClient(10, clock.Now)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, c.Set(ctx, "forever", []byte("2"), 0))

	clock.Advance(2 * time.Second)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryClient_Eviction(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := newMemoryClient(2, clock.Now)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", []byte("a"), 0))
	clock.Advance(time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", []byte("b"), 0))
	clock.Advance(time.Millisecond)
	require.NoError(t, c.Set(ctx, "c", []byte("c"), 0))

	assert.Equal(t, 2, c.Len())
	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss, "oldest entry is evicted")

	// Overwriting an existing key never evicts.
	require.NoError(t, c.Set(ctx, "c", []byte("c2"), 0))
	assert.Equal(t, 2, c.Len())
}

func TestMemoryClient_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(10)
	defer c.Close()

	require.NoError(t, c.Set(ctx, SessionKey("s1", "browse", "x"), []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, SessionKey("s1", "browse", "y"), []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, SessionKey("s2", "browse", "x"), []byte("3"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, SessionKey("s1")))
	assert.Equal(t, 1, c.Len())
}

func TestNew(t *testing.T) {
	c, err := New(Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryClient{}, c)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close is idempotent")

	_, err = New(Options{Driver: "memcached"})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "a:b:c", Key("a", "b", "c"))
	assert.Equal(t, "s:abc:browse", SessionKey("abc", "browse"))
}
