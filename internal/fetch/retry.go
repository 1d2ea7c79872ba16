package fetch

import (
	"context"
	"errors"
	"time"
)

// RetryConfig configures retry behavior with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int
	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration
	// MaxBackoff caps the wait between attempts. Zero means no cap.
	MaxBackoff time.Duration
	// BackoffFactor multiplies the wait after every failed attempt.
	BackoffFactor float64
}

// DefaultRetryConfig waits 1s, 2s, 4s, 8s between five attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
	}
}

// Attempt is called once per try with the 1-based attempt number.
type Attempt func(ctx context.Context, attempt int) error

// OnFailure observes a failed attempt before the next wait.
type OnFailure func(attempt int, err error)

// Retry runs fn until it succeeds, attempts run out, or ctx is done. It never
// waits after the last attempt. The returned error is the last attempt's
// error, or the context error when cancelled.
func Retry(ctx context.Context, cfg RetryConfig, fn Attempt, onFailure OnFailure) (int, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = 1
	}

	backoff := cfg.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err := fn(ctx, attempt)
		if err == nil {
			return attempt, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return attempt, ctx.Err()
		}
		if onFailure != nil {
			onFailure(attempt, err)
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, cfg.BackoffFactor, cfg.MaxBackoff)
	}
	return cfg.MaxAttempts, lastErr
}

func nextBackoff(current time.Duration, factor float64, limit time.Duration) time.Duration {
	next := time.Duration(float64(current) * factor)
	if limit > 0 && next > limit {
		return limit
	}
	return next
}
