// Package resilience wraps outbound LLM and web search calls with retry and
// circuit breaking so one flaky backend does not stall a whole workflow run.
package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0
	defaultJitter         = 0.1
)

// RetryConfig is the retry policy applied around a provider call.
// Zero fields fall back to the defaults.
type RetryConfig struct {
	// MaxAttempts counts the first call plus retries.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration
	// BackoffFactor multiplies the delay after each failed attempt.
	BackoffFactor float64
	// Jitter shifts each delay by up to this fraction in either direction so
	// concurrent runs do not retry in lockstep.
	Jitter float64
	// RetryIf decides whether an error is worth another attempt.
	RetryIf func(error) bool
}

// DefaultRetryConfig is the policy the llm service applies to generation and
// embedding calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    defaultMaxAttempts,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
		BackoffFactor:  defaultBackoffFactor,
		Jitter:         defaultJitter,
		RetryIf:        DefaultRetryIf,
	}
}

// DefaultRetryIf retries everything except cancellation. A cancelled run must
// abort rather than keep hitting the provider with doomed attempts.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (cfg *RetryConfig) applyDefaults() {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = defaultBackoffFactor
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}
}

// Retry calls fn until it succeeds, the policy gives up, or ctx ends. On
// failure it returns the error from the last attempt; context errors take
// precedence over provider errors.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg.applyDefaults()

	var zero T
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		if !cfg.RetryIf(err) || attempt == cfg.MaxAttempts {
			return zero, err
		}

		if werr := wait(ctx, cfg.backoff(attempt)); werr != nil {
			return zero, werr
		}
	}
}

// backoff computes the delay before the retry that follows attempt.
func (cfg RetryConfig) backoff(attempt int) time.Duration {
	d := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if cfg.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * cfg.Jitter * d
	}
	if d > float64(cfg.MaxBackoff) {
		d = float64(cfg.MaxBackoff)
	}
	if d < 0 {
		d = float64(cfg.InitialBackoff)
	}
	return time.Duration(d)
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
