package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles outbound calls to one upstream provider. A single
// instance is shared across every worker hitting that provider; the burst of
// one means the first call proceeds immediately and subsequent calls are
// spaced at least Interval apart.
type Limiter struct {
	maxPerSecond float64
	interval     time.Duration
	limiter      *rate.Limiter
}

// New constructs a Limiter allowing at most maxPerSecond calls per second.
func New(maxPerSecond float64) (*Limiter, error) {
	if maxPerSecond <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %v", maxPerSecond)
	}
	return &Limiter{
		maxPerSecond: maxPerSecond,
		interval:     time.Duration(float64(time.Second) / maxPerSecond),
		limiter:      rate.NewLimiter(rate.Limit(maxPerSecond), 1),
	}, nil
}

// Wait blocks until the next call is allowed or the context is canceled.
// Safe for concurrent use.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// MaxPerSecond returns the configured rate.
func (l *Limiter) MaxPerSecond() float64 { return l.maxPerSecond }

// Interval returns the minimum spacing between calls (1 / rate).
func (l *Limiter) Interval() time.Duration { return l.interval }
