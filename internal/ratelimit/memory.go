package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process sliding window. Timestamps are pruned lazily on
// each check. The whole read-prune-append sequence runs under the mutex, so
// two concurrent requests can never both consume the last remaining slot.
type Memory struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// WithClock overrides the time source.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Allow(_ context.Context, identifier string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	windowStart := now.Add(-m.window)

	hits := m.hits[identifier]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= m.limit {
		m.hits[identifier] = kept
		return Result{
			Allowed:   false,
			Limit:     m.limit,
			Remaining: 0,
			Reset:     kept[0].Add(m.window),
		}, nil
	}

	kept = append(kept, now)
	m.hits[identifier] = kept

	return Result{
		Allowed:   true,
		Limit:     m.limit,
		Remaining: m.limit - len(kept),
		Reset:     now.Add(m.window),
	}, nil
}
