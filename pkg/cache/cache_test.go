package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLSetGet(t *testing.T) {
	c := NewTTL[string](time.Minute, 10)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "alpha")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", v)

	c.Set("a", "beta")
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "beta", v)
	assert.Equal(t, 1, c.Len())
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[int](10*time.Millisecond, 10)

	c.Set("k", 42)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCapacityEviction(t *testing.T) {
	c := NewTTL[int](time.Minute, 2)

	c.Set("a", 1)
	time.Sleep(time.Millisecond)
	c.Set("b", 2)
	time.Sleep(time.Millisecond)
	c.Set("c", 3)

	assert.Equal(t, 2, c.Len())

	// "a" expires soonest and is the eviction victim.
	_, ok := c.Get("a")
	assert.False(t, ok)

	v, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestTTLDelete(t *testing.T) {
	c := NewTTL[string](time.Minute, 10)

	c.Set("a", "alpha")
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	c.Delete("a")
}

func TestTTLNilSliceValue(t *testing.T) {
	c := NewTTL[[]string](time.Minute, 10)

	// A stored nil is a hit, distinct from a miss.
	c.Set("empty", nil)
	v, ok := c.Get("empty")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestNewTTLDefaults(t *testing.T) {
	c := NewTTL[int](0, 0)
	assert.Equal(t, time.Minute, c.ttl)
	assert.Equal(t, 128, c.maxEntries)
}
