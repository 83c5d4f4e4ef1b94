// Package ratelimit caps public submissions per client key (usually the IP).
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Nop lets every request through.
type Nop struct{}

func (Nop) Allow(context.Context, string) (bool, error) { return true, nil }

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory keeps one token bucket per key. Buckets refill at requests/window
// and hold up to requests tokens.
type Memory struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

func NewMemory(requests int, window time.Duration) *Memory {
	return &Memory{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
		idle:     2 * window,
		now:      time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// Run evicts idle buckets every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Memory) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.idle {
			delete(m.visitors, key)
		}
	}
}

func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visitors)
}
