package knuspr

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterSpacesCalls(t *testing.T) {
	const interval = 20 * time.Millisecond
	limiter := newRateLimiter(interval)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.wait(ctx))
	}
	elapsed := time.Since(start)

	// First call is free, the next two each wait a full interval.
	assert.GreaterOrEqual(t, elapsed, 2*interval-5*time.Millisecond)
}

func TestRateLimiterConcurrent(t *testing.T) {
	const interval = 15 * time.Millisecond
	limiter := newRateLimiter(interval)
	ctx := context.Background()

	var mu sync.Mutex
	var permits []time.Time

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.wait(ctx); err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			permits = append(permits, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, permits, 5)
	sort.Slice(permits, func(i, j int) bool { return permits[i].Before(permits[j]) })
	for i := 1; i < len(permits); i++ {
		gap := permits[i].Sub(permits[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond,
			"permits %d and %d only %v apart", i-1, i, gap)
	}
}

func TestRateLimiterZeroIntervalDisabled(t *testing.T) {
	limiter := newRateLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.wait(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiterContextCancelled(t *testing.T) {
	limiter := newRateLimiter(time.Minute)
	require.NoError(t, limiter.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
