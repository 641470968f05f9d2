package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a per-source token bucket. The aggregator consults it
// before each outbound prediction call so one fan-out cannot hammer a
// single AMC endpoint.
type Limiter struct {
	mu       sync.Mutex
	m        map[string]*bucket
	capacity float64
	rps      float64
}

// New creates a limiter where every source gets capacity tokens refilled
// at rps per second.
func New(capacity, rps float64) *Limiter {
	if capacity <= 0 {
		capacity = 5
	}
	if rps <= 0 {
		rps = 2
	}
	return &Limiter{m: make(map[string]*bucket), capacity: capacity, rps: rps}
}

// Allow consumes one token for source, returning false when the bucket
// is empty.
func (l *Limiter) Allow(source string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[source]
	if !ok {
		b = &bucket{tokens: l.capacity, capacity: l.capacity, refillRate: l.rps, last: now}
		l.m[source] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available for source or the deadline
// passes. It polls rather than scheduling wakeups; fan-out volumes are
// small enough that this stays cheap.
func (l *Limiter) Wait(source string, deadline time.Time) bool {
	for {
		if l.Allow(source) {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(50 * time.Millisecond)
	}
}
