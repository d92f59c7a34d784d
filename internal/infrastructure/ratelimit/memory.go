package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepEvery = 1024

// MemoryLimiter is a per-process sliding-window log. Each key keeps the
// admission times inside its window; a call is admitted while fewer than
// Requests admissions remain.
type MemoryLimiter struct {
	mu       sync.Mutex
	policies PolicyFunc
	now      func() time.Time
	windows  map[string][]time.Time
	calls    int
}

func NewMemoryLimiter(policies PolicyFunc) *MemoryLimiter {
	return &MemoryLimiter{
		policies: policies,
		now:      time.Now,
		windows:  make(map[string][]time.Time),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	policy := l.policies(operationOf(key))

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(now)
	}

	hits := prune(l.windows[key], now.Add(-policy.Window))
	if len(hits) >= policy.Requests {
		l.windows[key] = hits
		return false, nil
	}
	l.windows[key] = append(hits, now)
	return true, nil
}

// sweep drops keys whose newest admission is older than their window.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, hits := range l.windows {
		window := l.policies(operationOf(key)).Window
		if len(hits) == 0 || !hits[len(hits)-1].After(now.Add(-window)) {
			delete(l.windows, key)
		}
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return hits
	}
	return append(hits[:0], hits[i:]...)
}
