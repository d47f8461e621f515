// Package ratelimit paces how fast a driver may hand events to a
// BookCore, modeling the single ordered producer stream the matcher
// expects without adding any concurrency to the matcher itself.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps golang.org/x/time/rate.Limiter with the vocabulary of
// an ingress event gate.
type Limiter struct {
	inner *rate.Limiter
}

// New creates a Limiter allowing eventsPerSecond steady-state with a
// burst of up to burst events queued instantaneously.
func New(eventsPerSecond float64, burst int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Limit(eventsPerSecond), burst)}
}

// Wait blocks until one event may proceed, or ctx is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}

// Allow reports whether one event may proceed right now, consuming a
// token if so, without blocking.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}
