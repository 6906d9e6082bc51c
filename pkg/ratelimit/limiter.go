// Package ratelimit provides a courtesy token-bucket limiter for outbound
// UniProt requests.
//
// UniProt does not publish a hard rate limit for the public REST API, but it
// is a shared academic resource. The limiter spaces requests out client-side
// so that a paginated crawl never floods the upstream.
package ratelimit

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for rate limiting.
var (
	rateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_rate_limit_waits_total",
		Help: "Total number of requests that waited for a rate limit token",
	})

	rateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uniprot_rate_limit_wait_seconds",
		Help:    "Time spent waiting for a rate limit token",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})
)

// Limiter gates outbound requests using a token bucket.
type Limiter struct {
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewLimiter creates a limiter allowing requestsPerSecond sustained requests
// with the given burst capacity.
func NewLimiter(requestsPerSecond float64, burst int, logger zerolog.Logger) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		logger:  logger,
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.limiter.Allow() {
		return nil
	}

	rateLimitWaitsTotal.Inc()

	reservation := l.limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	rateLimitWaitSeconds.Observe(delay.Seconds())

	l.logger.Debug().
		Dur("wait", delay).
		Msg("Waiting for rate limit token")

	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	return nil
}

// Limit reports the configured sustained rate.
func (l *Limiter) Limit() float64 {
	return float64(l.limiter.Limit())
}

// Burst reports the configured burst capacity.
func (l *Limiter) Burst() int {
	return l.limiter.Burst()
}
