package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestMemoryStore_Boundary(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	for i := 0; i < 5; i++ {
		d, err := store.Check(ctx, "1.2.3.4", 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "call %d", i+1)
		assert.Equal(t, 4-i, d.Remaining)
		clock.Advance(time.Minute)
	}

	d, err := store.Check(ctx, "1.2.3.4", 5, time.Hour)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 55*time.Minute, d.RetryAfter)
	assert.Equal(t, 3300, d.RetryAfterSeconds())

	// A rejected attempt is not recorded.
	clock.Advance(55 * time.Minute)
	d, err = store.Check(ctx, "1.2.3.4", 5, time.Hour)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestMemoryStore_WindowExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	for i := 0; i < 5; i++ {
		_, err := store.Check(ctx, "ip", 5, time.Hour)
		require.NoError(t, err)
	}
	d, _ := store.Check(ctx, "ip", 5, time.Hour)
	require.False(t, d.Allowed)

	clock.Advance(time.Hour + time.Second)
	d, err := store.Check(ctx, "ip", 5, time.Hour)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestMemoryStore_NeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStoreWithClock(newFakeClock().Now)

	for i := 0; i < 50; i++ {
		_, err := store.Check(ctx, "ip", 10, time.Hour)
		require.NoError(t, err)
	}
	store.mu.Lock()
	assert.Len(t, store.windows["ip"], 10)
	store.mu.Unlock()
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStoreWithClock(newFakeClock().Now)
	register := Policy{Name: "register", Limit: 1, Window: time.Hour}
	login := Policy{Name: "login", Limit: 1, Window: time.Hour}

	d, _ := register.Check(ctx, store, "10.0.0.1")
	assert.True(t, d.Allowed)
	d, _ = register.Check(ctx, store, "10.0.0.1")
	assert.False(t, d.Allowed)

	d, _ = register.Check(ctx, store, "10.0.0.2")
	assert.True(t, d.Allowed)
	d, _ = login.Check(ctx, store, "10.0.0.1")
	assert.True(t, d.Allowed)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	_, _ = store.Check(ctx, "old", 5, time.Hour)
	_, _ = store.Check(ctx, "old", 5, time.Hour)
	clock.Advance(40 * time.Minute)
	_, _ = store.Check(ctx, "mixed", 5, time.Hour)
	clock.Advance(30 * time.Minute)
	_, _ = store.Check(ctx, "mixed", 5, time.Hour)
	_, _ = store.Check(ctx, "fresh", 5, time.Hour)

	report, err := store.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, report.RemovedEntries)
	assert.Equal(t, 1, report.RemovedKeys)
	assert.Equal(t, 2, report.RemainingKeys)
	assert.Equal(t, clock.Now(), report.At)
	assert.Equal(t, 2, store.Len())

	clock.Advance(2 * time.Hour)
	report, err = store.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, report.RemovedEntries)
	assert.Equal(t, 2, report.RemovedKeys)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := store.Check(ctx, "ip", 7, time.Hour)
			if err != nil || !d.Allowed {
				return
			}
			mu.Lock()
			allowed++
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 7, allowed)
}

func TestDecision_RetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 0, Decision{Allowed: true, RetryAfter: time.Minute}.RetryAfterSeconds())
	assert.Equal(t, 1, Decision{RetryAfter: 0}.RetryAfterSeconds())
	assert.Equal(t, 2, Decision{RetryAfter: 1500 * time.Millisecond}.RetryAfterSeconds())
	assert.Equal(t, 60, Decision{RetryAfter: time.Minute}.RetryAfterSeconds())
}
