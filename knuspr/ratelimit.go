package knuspr

import (
	"context"
	"sync"
	"time"
)

// rateLimiter enforces a minimum interval between the starts of
// consecutive requests. One instance gates all calls of a client.
//
// The mutex is held across the elapsed check, the sleep, and the
// timestamp update, so two goroutines can never both observe a stale
// "last request" time and bypass the interval.
type rateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

func newRateLimiter(minInterval time.Duration) *rateLimiter {
	return &rateLimiter{minInterval: minInterval}
}

// wait blocks until the interval since the previous permitted call has
// elapsed, then records the current call's start time. Returns early with
// the context error if ctx is cancelled while waiting.
func (r *rateLimiter) wait(ctx context.Context) error {
	if r.minInterval <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.lastRequest.IsZero() {
		if remaining := r.minInterval - time.Since(r.lastRequest); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	r.lastRequest = time.Now()
	return nil
}
