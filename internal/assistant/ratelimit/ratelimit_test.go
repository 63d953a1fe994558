package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-assistant/server/internal/assistant/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestWindowAllowsUpToCapacity(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	w := NewWindow(3, time.Minute, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		require.True(t, w.TryAcquire(ctx), "request %d should be allowed", i+1)
	}
	assert.False(t, w.TryAcquire(ctx), "request beyond capacity must be denied")
	assert.Equal(t, 3, w.Snapshot().Count, "denied requests are not counted")
}

func TestWindowResetsAfterElapsed(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	w := NewWindow(2, time.Minute, WithClock(clock.Now))

	require.True(t, w.TryAcquire(ctx))
	require.True(t, w.TryAcquire(ctx))
	require.False(t, w.TryAcquire(ctx))

	// Exactly one window later is still the same window.
	clock.Advance(time.Minute)
	assert.False(t, w.TryAcquire(ctx))

	clock.Advance(time.Millisecond)
	assert.True(t, w.TryAcquire(ctx))

	snap := w.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, clock.Now(), snap.WindowStart)
}

func TestWindowDefaults(t *testing.T) {
	w := NewWindow(0, 0)
	assert.Equal(t, DefaultMaxRequests, w.maxRequests)
	assert.Equal(t, DefaultWindow, w.window)

	w = NewWindowFromConfig(model.RateLimitConfig{MaxRequests: 5, Window: time.Second})
	assert.Equal(t, 5, w.maxRequests)
	assert.Equal(t, time.Second, w.window)
}

func TestWindowIsSafeForConcurrentUse(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(50, time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.TryAcquire(ctx) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestMemoryFactoryIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	factory := MemoryFactory(model.RateLimitConfig{MaxRequests: 1, Window: time.Hour})

	a := factory("a")
	b := factory("b")
	require.True(t, a.TryAcquire(ctx))
	assert.False(t, a.TryAcquire(ctx))
	assert.True(t, b.TryAcquire(ctx))
}

func TestWindowKey(t *testing.T) {
	assert.Equal(t, "ratelimit:abc", windowKey("abc"))
}
