package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"marketevents/internal/metrics"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
)

// Retrier runs an operation up to MaxAttempts times. After failed attempt n
// (0-based) it waits BaseDelay*2^n before the next one; the last failure is
// returned unchanged. Each Do call starts with a fresh budget.
type Retrier struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *zap.Logger

	// Sleep blocks for d. Nil means a context-aware timer wait.
	Sleep func(ctx context.Context, d time.Duration) error
	// Retryable reports whether err is worth another attempt. Nil retries
	// every error.
	Retryable func(err error) bool
	// OnRetry counts a retry of op. Nil counts it as a completion retry.
	OnRetry func(op string)
}

// Backoff returns the wait after failed attempt n.
func (r *Retrier) Backoff(attempt int) time.Duration {
	base := r.BaseDelay
	if base < 0 {
		base = 0
	}
	return base * time.Duration(1<<uint(attempt))
}

func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) (string, error)) (string, error) {
	return Retry(ctx, r, op, fn)
}

// Retry is Do for any result type. A nil Retrier runs fn once.
func Retry[T any](ctx context.Context, r *Retrier, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if r == nil {
		return fn(ctx)
	}
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if attempt == attempts-1 || (r.Retryable != nil && !r.Retryable(err)) {
			break
		}
		wait := r.Backoff(attempt)
		if r.Logger != nil {
			r.Logger.Warn("attempt failed, retrying",
				zap.String("op", op),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", attempts),
				zap.Duration("backoff", wait),
				zap.Error(err),
			)
		}
		if r.OnRetry != nil {
			r.OnRetry(op)
		} else {
			metrics.CompletionRetries.Inc()
		}
		if err := r.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func (r *Retrier) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
