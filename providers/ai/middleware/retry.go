package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/leofalp/reactloop/internal/utils"
	"github.com/leofalp/reactloop/providers/ai"
	"github.com/leofalp/reactloop/providers/observability"
)

// RetryConfig tunes the retry middleware. Zero values are replaced with the
// defaults noted on each field.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first failure. Default: 3.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff. Default: 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth multiplier. Default: 2.
	BackoffFactor float64

	// JitterFraction adds up to JitterFraction*backoff of random wait. Default: 0.1.
	JitterFraction float64

	// RetryableFunc reports whether err should be retried. The default
	// retries 429, 500, 502, 503 and 529 responses.
	RetryableFunc func(error) bool

	// Observability receives a warning and a counter increment per retry.
	Observability observability.Provider
}

var retryableStatuses = []int{429, 500, 502, 503, 529}

// IsRetryable is the default RetryableFunc. It looks for a *utils.StatusError
// in the chain and falls back to the "status NNN" text for providers that
// flatten their errors. Context errors are never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return slices.Contains(retryableStatuses, statusErr.StatusCode)
	}
	msg := err.Error()
	for _, code := range retryableStatuses {
		if strings.Contains(msg, "status "+strconv.Itoa(code)) {
			return true
		}
	}
	return false
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = time.Second
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 30 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
	if c.JitterFraction == 0 {
		c.JitterFraction = 0.1
	}
	if c.RetryableFunc == nil {
		c.RetryableFunc = IsRetryable
	}
	c.Observability = observability.OrNop(c.Observability)
}

// backoff returns the wait before retry number attempt (0-indexed):
// min(InitialBackoff * BackoffFactor^attempt, MaxBackoff) plus jitter.
func (c RetryConfig) backoff(attempt int) time.Duration {
	base := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(attempt))
	if base > float64(c.MaxBackoff) {
		base = float64(c.MaxBackoff)
	}
	jitter := base * c.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter
	return time.Duration(base + jitter)
}

// Retry retries failed requests with exponential backoff. A non-retryable
// error is returned as is. After the last attempt the error wraps both
// [ErrRetryExhausted] and the last provider error.
func Retry(config RetryConfig) Middleware {
	config.applyDefaults()
	retries := config.Observability.Counter(observability.MetricLLMRetryCount)

	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			var lastErr error
			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					wait := config.backoff(attempt - 1)
					config.Observability.Warn(ctx, "retrying llm request",
						observability.Int(observability.AttrLLMAttempt, attempt+1),
						observability.Duration(observability.AttrDuration, wait),
						observability.Error(lastErr),
					)
					retries.Add(ctx, 1, observability.String(observability.AttrLLMModel, request.Model))

					timer := time.NewTimer(wait)
					select {
					case <-ctx.Done():
						timer.Stop()
						return nil, ctx.Err()
					case <-timer.C:
					}
				}

				response, err := next(ctx, request)
				if err == nil {
					return response, nil
				}
				lastErr = err
				if !config.RetryableFunc(err) {
					return nil, err
				}
			}
			return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		}
	}
}
