// # internal/shared/util/limiter_registry.go
package util

import (
	"context"
	"sync"
	"time"
)

// LimiterRegistry hands out one Limiter per key and forgets keys that have
// been idle longer than ttl.
type LimiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     float64
	burst    int
	ttl      time.Duration
}

type limiterEntry struct {
	limiter  *Limiter
	lastUsed time.Time
}

// NewLimiterRegistry creates a registry whose cleanup loop runs until ctx
// ends. A non-positive ttl keeps every limiter.
func NewLimiterRegistry(ctx context.Context, perSecond float64, burst int, ttl time.Duration) *LimiterRegistry {
	reg := &LimiterRegistry{
		limiters: make(map[string]*limiterEntry),
		rate:     perSecond,
		burst:    burst,
		ttl:      ttl,
	}
	if ttl > 0 {
		go reg.cleanupLoop(ctx)
	}
	return reg
}

// Get returns the limiter for key, creating it on first use.
func (r *LimiterRegistry) Get(key string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: NewLimiter(r.rate, r.burst)}
		r.limiters[key] = entry
	}
	entry.lastUsed = time.Now()
	return entry.limiter
}

// SetRate updates the rate of every existing and future limiter.
func (r *LimiterRegistry) SetRate(perSecond float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rate = perSecond
	for _, entry := range r.limiters {
		entry.limiter.SetRate(perSecond)
	}
}

// Len reports how many keys are tracked.
func (r *LimiterRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *LimiterRegistry) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (r *LimiterRegistry) cleanup(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, entry := range r.limiters {
		if now.Sub(entry.lastUsed) > r.ttl {
			delete(r.limiters, key)
		}
	}
}
