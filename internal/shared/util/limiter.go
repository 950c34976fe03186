// # internal/shared/util/limiter.go
package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket. A non-positive rate means unlimited.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a limiter refilling perSecond tokens with the given burst.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{inner: rate.NewLimiter(toLimit(perSecond), burst)}
}

func toLimit(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}

// Allow takes one token if available.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Wait blocks until a token is available or ctx ends.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}

// SetRate changes the refill rate, keeping the tokens already in the bucket.
func (l *Limiter) SetRate(perSecond float64) {
	l.inner.SetLimitAt(time.Now(), toLimit(perSecond))
}
