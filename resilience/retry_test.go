package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func quickRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	out, err := Retry(context.Background(), quickRetry(3), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("429 rate limited")
		}
		return "a completion", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a completion" {
		t.Fatalf("unexpected result: %q", out)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ReturnsLastErrorAfterMaxAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), quickRetry(3), func() (int, error) {
		calls++
		return 0, errors.New("upstream 500")
	})
	if err == nil || err.Error() != "upstream 500" {
		t.Fatalf("expected last provider error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected exactly MaxAttempts calls, got %d", calls)
	}
}

func TestRetry_DoesNotRetryCancellation(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), quickRetry(5), func() (int, error) {
		calls++
		return 0, context.Canceled
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("cancellation must not be retried, got %d calls", calls)
	}
}

func TestRetry_StopsWhenContextEndsDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := quickRetry(5)
	cfg.InitialBackoff = 50 * time.Millisecond

	calls := 0
	_, err := Retry(ctx, cfg, func() (int, error) {
		calls++
		cancel()
		return 0, errors.New("flaky provider")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the backoff wait to abort, got %d calls", calls)
	}
}

func TestRetry_CustomRetryIf(t *testing.T) {
	errBadRequest := errors.New("400 bad request")

	cfg := quickRetry(5)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, errBadRequest) }

	calls := 0
	_, err := Retry(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, errBadRequest
	})
	if !errors.Is(err, errBadRequest) {
		t.Fatalf("expected the client error back, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("non-retryable error must fail immediately, got %d calls", calls)
	}
}

func TestRetry_ZeroConfigUsesDefaults(t *testing.T) {
	out, err := Retry(context.Background(), RetryConfig{}, func() (string, error) {
		return "ok", nil
	})
	if err != nil || out != "ok" {
		t.Fatalf("unexpected result: %q, %v", out, err)
	}
}

func TestRetryConfig_BackoffGrowsAndCaps(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     300 * time.Millisecond,
		BackoffFactor:  2.0,
	}

	if got := cfg.backoff(1); got != 100*time.Millisecond {
		t.Fatalf("first backoff should be the initial delay, got %s", got)
	}
	if got := cfg.backoff(2); got != 200*time.Millisecond {
		t.Fatalf("second backoff should double, got %s", got)
	}
	if got := cfg.backoff(5); got != 300*time.Millisecond {
		t.Fatalf("backoff should cap at MaxBackoff, got %s", got)
	}
}
