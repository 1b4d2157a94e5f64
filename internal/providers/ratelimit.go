package providers

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter provides token bucket rate limiting for API calls.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter from a provider's configuration.
// A zero RequestsPerMinute disables limiting.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}

	burst := config.BurstSize
	if burst <= 0 {
		burst = config.RequestsPerMinute
	}

	perSecond := rate.Limit(float64(config.RequestsPerMinute) / 60.0)
	return &RateLimiter{limiter: rate.NewLimiter(perSecond, burst)}
}

// Wait blocks until a token is available or context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// TryAcquire attempts to acquire a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	return r.limiter.Allow()
}
