package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", "3")
	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCacheExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](10, 10*time.Minute).WithClock(clock.now)
	c.Set("sid-1", 1)
	c.Set("sid-2", 2)

	clock.t = clock.t.Add(5 * time.Minute)
	c.Set("sid-2", 22)
	got, ok := c.Get("sid-1")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	clock.t = clock.t.Add(6 * time.Minute)
	_, ok = c.Get("sid-1")
	assert.False(t, ok)

	clock.t = clock.t.Add(10 * time.Minute)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Zero(t, c.Size())
}

func TestLRUCacheDelete(t *testing.T) {
	c := NewLRUCache[string](0, time.Minute)
	c.Set("k", "v")
	c.Delete("k")
	c.Delete("missing")
	assert.Zero(t, c.Size())
}

func TestManagerSweepAndStop(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := NewLRUCache[string](5, time.Second).WithClock(clock.now)
	c.Set("x", "y")

	m := NewManager()
	m.Register(c)
	m.StartCleanup(time.Hour)

	clock.t = clock.t.Add(2 * time.Second)
	assert.Equal(t, 1, m.Sweep())

	m.Stop()
	m.Stop()
}
