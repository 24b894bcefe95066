// Package ratelimit bounds how fast the schema registry talks to remote
// hosts.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles remote fetches to a fixed number per second.
type Limiter struct {
	limiter *rate.Limiter
}

// New uses 0 or a negative limit for no throttling. The burst is one
// request: the first fetch proceeds immediately, subsequent ones wait out
// the configured rate.
func New(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1)}
}

// Wait blocks until a fetch may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports without blocking whether a fetch may proceed now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit returns the configured rate, 0 meaning unlimited.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
