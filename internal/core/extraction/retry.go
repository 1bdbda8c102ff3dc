package extraction

import (
	"context"
	"time"

	"github.com/agenthands/tranche/internal/config"
)

// Policy is an explicit retry policy: attempt budget, backoff schedule and a
// retryable-error predicate. Tests substitute Sleep with a no-op so nothing
// actually waits.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Retryable   func(error) bool
	Sleep       func(ctx context.Context, d time.Duration) error
}

// PolicyFromConfig builds the production policy: exponential backoff,
// transient-only retries, real sleeps.
func PolicyFromConfig(cfg config.RetryConfig) Policy {
	return Policy{
		MaxAttempts: cfg.MaxAttempts,
		Backoff: ExponentialBackoff(
			time.Duration(cfg.InitialBackoffMS)*time.Millisecond,
			cfg.BackoffMultiplier,
			time.Duration(cfg.MaxBackoffMS)*time.Millisecond,
		),
		Retryable: func(err error) bool { return Classify(err).Transient() },
	}
}

// ExponentialBackoff returns the delay schedule initial * multiplier^attempt,
// capped at max. Attempt numbering starts at 0 for the delay after the first
// failure.
func ExponentialBackoff(initial time.Duration, multiplier float64, max time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		d := float64(initial)
		for i := 0; i < attempt; i++ {
			d *= multiplier
		}
		if time.Duration(d) > max {
			return max
		}
		return time.Duration(d)
	}
}

// Do runs fn up to MaxAttempts times. Non-retryable errors return
// immediately; the last error is returned after the budget is spent.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.Backoff(attempt-1)); err != nil {
				return err
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
