package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func setupTestCache() (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.Now)), clock
}

func TestCache_GetBeforeAndAfterExpiry(t *testing.T) {
	t.Run("returns the value before expiresAt", func(t *testing.T) {
		// Arrange
		c, clock := setupTestCache()
		c.Set("k", "v", time.Minute)

		// Act
		clock.Advance(59 * time.Second)
		v, ok := c.Get("k")

		// Assert
		assert.True(t, ok)
		assert.Equal(t, "v", v)
	})

	t.Run("misses exactly at expiresAt and drops the entry", func(t *testing.T) {
		// Arrange
		c, clock := setupTestCache()
		c.Set("k", "v", time.Minute)

		// Act
		clock.Advance(time.Minute)
		v, ok := c.Get("k")

		// Assert
		assert.False(t, ok)
		assert.Nil(t, v)
		assert.False(t, c.Has("k"))
		assert.Equal(t, 0, c.Stats().Total)
	})

	t.Run("misses on unset key", func(t *testing.T) {
		c, _ := setupTestCache()

		_, ok := c.Get("missing")

		assert.False(t, ok)
	})
}

func TestCache_SetOverwritesAndDefaultsTTL(t *testing.T) {
	c, clock := setupTestCache()

	c.Set("k", 1, 0)
	c.Set("k", 2, 0)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	clock.Advance(DefaultTTL - time.Second)
	assert.True(t, c.Has("k"))

	clock.Advance(time.Second)
	assert.False(t, c.Has("k"))
}

func TestCache_DeleteAndClear(t *testing.T) {
	c, _ := setupTestCache()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))

	c.Clear()
	assert.Equal(t, Stats{}, c.Stats())
}

func TestCache_CleanupAndStats(t *testing.T) {
	// Arrange
	c, clock := setupTestCache()
	c.Set("short", 1, time.Minute)
	c.Set("boundary", 2, 2*time.Minute)
	c.Set("long", 3, 10*time.Minute)
	clock.Advance(2 * time.Minute)

	// Act
	before := c.Stats()
	removed := c.Cleanup()
	after := c.Stats()

	// Assert
	assert.Equal(t, Stats{Total: 3, Valid: 1, Expired: 2}, before)
	assert.Equal(t, 2, removed)
	assert.Equal(t, Stats{Total: 1, Valid: 1, Expired: 0}, after)
}

func TestCache_InvalidatePrefix(t *testing.T) {
	c, _ := setupTestCache()
	c.Set("github:repos", 1, time.Minute)
	c.Set("github:user", 2, time.Minute)
	c.Set("other", 3, time.Minute)

	assert.Equal(t, 2, c.InvalidatePrefix("github:"))
	assert.True(t, c.Has("other"))
}

func TestCache_JanitorLifecycle(t *testing.T) {
	t.Run("stop runs a final sweep", func(t *testing.T) {
		// Arrange
		c, clock := setupTestCache()
		c.StartJanitor(context.Background(), time.Hour)
		c.Set("k", 1, time.Second)
		clock.Advance(time.Second)

		// Act
		removed := c.Stop()

		// Assert
		assert.Equal(t, 1, removed)
		assert.Equal(t, 0, c.Stats().Total)
	})

	t.Run("stop without janitor still sweeps and is idempotent", func(t *testing.T) {
		c, _ := setupTestCache()

		assert.Equal(t, 0, c.Stop())
		assert.Equal(t, 0, c.Stop())
	})

	t.Run("janitor ends when context is cancelled", func(t *testing.T) {
		c, _ := setupTestCache()
		ctx, cancel := context.WithCancel(context.Background())
		c.StartJanitor(ctx, time.Hour)

		cancel()

		select {
		case <-c.done:
		case <-time.After(time.Second):
			t.Fatal("janitor did not stop after cancel")
		}
	})
}
