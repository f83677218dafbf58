package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	InitDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay cap
	Multiplier float64       // Backoff multiplier (e.g., 2.0 for doubling)
	Jitter     float64       // Jitter factor (0.0 to 1.0)
}

// RetryFunc is the function signature for operations that can be retried.
type RetryFunc func(ctx context.Context) error

// RetryCallback is called before each retry attempt.
type RetryCallback func(attempt int, err error, nextDelay time.Duration)

// RetryPolicy is a named RetryConfig plus the hooks that decide whether and
// how loudly to retry.
type RetryPolicy struct {
	Name string
	RetryConfig

	// ShouldRetry decides whether err is retryable. Nil means
	// IsTransientError.
	ShouldRetry func(error) bool

	// OnRetry, when set, is called before each wait.
	OnRetry RetryCallback
}

var (
	// NoRetry disables retries entirely.
	NoRetry = RetryPolicy{Name: "no-retry"}

	// ExportRetry covers short-lived filesystem hiccups while writing export
	// files. It gives up well under a second so a stuck disk does not back
	// up the exporter.
	ExportRetry = RetryPolicy{
		Name: "export-retry",
		RetryConfig: RetryConfig{
			MaxRetries: 3,
			InitDelay:  25 * time.Millisecond,
			MaxDelay:   250 * time.Millisecond,
			Multiplier: 2.0,
			Jitter:     0.1,
		},
	}
)

// WithCallback returns a copy of p that calls cb before each retry.
func (p RetryPolicy) WithCallback(cb RetryCallback) RetryPolicy {
	p.OnRetry = cb
	return p
}

// Execute runs fn under this policy.
func (p RetryPolicy) Execute(ctx context.Context, fn RetryFunc) error {
	shouldRetry := p.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsTransientError
	}
	return retry(ctx, p.RetryConfig, fn, shouldRetry, p.OnRetry)
}

// Retry executes the operation with exponential backoff and jitter,
// stopping early on permanent errors. Returns the last error if all
// retries fail.
func Retry(ctx context.Context, cfg RetryConfig, fn RetryFunc) error {
	return retry(ctx, cfg, fn, IsTransientError, nil)
}

func retry(ctx context.Context, cfg RetryConfig, fn RetryFunc, shouldRetry func(error) bool, callback RetryCallback) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt >= cfg.MaxRetries {
			break
		}

		delay := calculateDelay(cfg, attempt)
		if callback != nil {
			callback(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// calculateDelay computes the delay for a given attempt with jitter.
func calculateDelay(cfg RetryConfig, attempt int) time.Duration {
	delay := float64(cfg.InitDelay) * math.Pow(cfg.Multiplier, float64(attempt))

	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}

	if cfg.Jitter > 0 {
		jitterRange := delay * cfg.Jitter
		delay = delay - jitterRange + (rand.Float64() * 2 * jitterRange)
	}

	return time.Duration(delay)
}
