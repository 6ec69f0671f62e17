package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/SHivit700/InteLect/internal/logger"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *logger.Logger
}

// WithRetry wraps a Provider with retry logic. log may be nil.
func WithRetry(p Provider, cfg RetryConfig, log *logger.Logger) Provider {
	return &RetryProvider{inner: p, config: cfg, log: log}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	attempts := max(r.config.MaxAttempts, 1)
	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}

		// Last attempt, no sleep.
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		if r.log != nil {
			r.log.Warn("retrying LLM request",
				"model", r.inner.ModelID(),
				"attempt", attempt+1,
				"wait", wait.String(),
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// Unwrap returns the decorated provider.
func (r *RetryProvider) Unwrap() Provider {
	return r.inner
}

// WithoutRetry strips a retry decorator from p, if p has one. Workflows
// that surface outages immediately use it so a failed call costs one
// backend request.
func WithoutRetry(p Provider) Provider {
	if r, ok := p.(*RetryProvider); ok {
		return r.inner
	}
	return p
}

// shouldRetry reports whether err is a transport failure worth another
// attempt. Schema rejections belong to the caller's repair loop.
func shouldRetry(err error) bool {
	if !IsTransient(err) {
		return false
	}
	var invResp *ErrInvalidResponse
	return !errors.As(err, &invResp)
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
