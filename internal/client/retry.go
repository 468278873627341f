package client

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// RetryConfig configures transport retry behavior.
type RetryConfig struct {
	MaxRetries     int           // maximum number of retry attempts after the first try
	InitialBackoff time.Duration // initial backoff duration (doubles each retry)
	MaxBackoff     time.Duration // maximum backoff duration
}

// DefaultRetryConfig returns sensible retry defaults for interactive use.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
	}
}

// ErrMaxRetriesExceeded indicates all retry attempts failed.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

// retryable reports whether an error is worth retrying: network failures and
// server-side errors (5xx, 429). Client errors (auth, validation, not found)
// fail immediately.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError ||
			apiErr.StatusCode == http.StatusTooManyRequests
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Transport-level failures from http.Client arrive as *url.Error; treat
	// everything that is not an APIError as transient.
	return err != nil
}

// withRetry executes fn with exponential backoff and jitter until it
// succeeds, fails with a non-retryable error, or the attempts are exhausted.
func withRetry(ctx context.Context, config RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err

		// Don't sleep after the last attempt.
		if attempt < config.MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(config, attempt)):
			}
		}
	}

	return errors.Join(ErrMaxRetriesExceeded, lastErr)
}

// calculateBackoff computes exponential backoff with up to 25% jitter.
func calculateBackoff(config RetryConfig, attempt int) time.Duration {
	backoff := float64(config.InitialBackoff) * math.Pow(2, float64(attempt))
	if backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}
	jitter := backoff * 0.25 * rand.Float64()
	return time.Duration(backoff + jitter)
}
