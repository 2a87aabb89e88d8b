// Package ratelimit guards the remote engine against ad-hoc request bursts.
// The scan loop throttles itself; this covers everything that bypasses it.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a keyed token bucket. Each key refills at refillPerSec up to
// capacity; a request consumes one token.
type Limiter struct {
	capacity     float64
	refillPerSec float64

	mu sync.Mutex
	m  map[string]*bucket
}

// New creates a limiter with the given per-key capacity and refill rate.
func New(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		capacity:     capacity,
		refillPerSec: refillPerSec,
		m:            make(map[string]*bucket),
	}
}

// Allow reports whether one token can be consumed for key right now.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * l.refillPerSec
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
