package api

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a per-client sliding-window limiter. A limit of zero
// disables it.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu     sync.Mutex
	events map[string][]time.Time
	now    func() time.Time
}

// NewRateLimiter allows limit requests per client within window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Enabled reports whether the limiter restricts anything.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.limit > 0 && rl.window > 0
}

// Allow records a request for client when it is within quota. When it is
// not, retryAfter is the time until the oldest request leaves the window.
func (rl *RateLimiter) Allow(client string) (allowed bool, remaining int, retryAfter time.Duration) {
	if !rl.Enabled() {
		return true, -1, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.recentLocked(client, now)

	if len(recent) >= rl.limit {
		rl.events[client] = recent
		return false, 0, recent[0].Add(rl.window).Sub(now)
	}

	recent = append(recent, now)
	rl.events[client] = recent
	return true, rl.limit - len(recent), 0
}

// recentLocked drops timestamps outside the window. Must be called with mu held.
func (rl *RateLimiter) recentLocked(client string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	timestamps := rl.events[client]
	i := 0
	for i < len(timestamps) && !timestamps[i].After(cutoff) {
		i++
	}
	return timestamps[i:]
}

// Cleanup forgets clients with no requests inside the window and returns
// how many were removed.
func (rl *RateLimiter) Cleanup() int {
	if !rl.Enabled() {
		return 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for client := range rl.events {
		recent := rl.recentLocked(client, now)
		if len(recent) == 0 {
			delete(rl.events, client)
			removed++
			continue
		}
		rl.events[client] = recent
	}
	return removed
}

// StartCleanup runs Cleanup every window until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	if !rl.Enabled() {
		return
	}
	go func() {
		ticker := time.NewTicker(rl.window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}
