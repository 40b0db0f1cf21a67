// Package ratelimit wraps golang.org/x/time/rate behind a small interface
// used to throttle bursty background work (here, the periodic eviction
// sweep of the token and compiled-program caches), without pulling the
// rate.Limiter type itself into every caller.
package ratelimit

import "golang.org/x/time/rate"

// Limiter throttles a stream of events (cache eviction sweeps, compile
// attempts, ...) to at most requestsPerSecond, with a burst of one.
type Limiter struct {
	limiter *rate.Limiter
}

// New uses 0 or negative limit for no rate limiting.
func New(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		// No rate limiting - use a very high limit
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}

	// Allow burst of 1 request, meaning we can make one request immediately
	// but subsequent requests must wait according to the rate limit
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Allow is non-blocking and reports whether an event may proceed now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit reports the configured rate in requests per second, or 0 if the
// Limiter was constructed with no rate limiting.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0 // Indicate no rate limiting
	}
	return float64(limit)
}
