package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/tranche/internal/config"
)

func noSleep(context.Context, time.Duration) error { return nil }

func transientErr() error {
	return &Error{Kind: ErrRateLimit, Document: "doc.pdf", Err: errors.New("429")}
}

func fatalErr() error {
	return &Error{Kind: ErrAuthFailure, Document: "doc.pdf", Err: errors.New("401")}
}

func testPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts: attempts,
		Backoff:     ExponentialBackoff(time.Millisecond, 2.0, time.Second),
		Retryable:   func(err error) bool { return Classify(err).Transient() },
		Sleep:       noSleep,
	}
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	err := testPolicy(4).Do(context.Background(), func(context.Context) error {
		calls++
		if calls <= 3 {
			return transientErr()
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestDoFatalErrorNotRetried(t *testing.T) {
	calls := 0
	err := testPolicy(4).Do(context.Background(), func(context.Context) error {
		calls++
		return fatalErr()
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, ErrAuthFailure, Classify(err))
}

func TestDoExhaustsBudget(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do(context.Background(), func(context.Context) error {
		calls++
		return transientErr()
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, ErrRateLimit, Classify(err))
}

func TestDoCancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	p := testPolicy(5)
	p.Sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return transientErr()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExponentialBackoff(t *testing.T) {
	backoff := ExponentialBackoff(time.Second, 2.0, 10*time.Second)

	assert.Equal(t, time.Second, backoff(0))
	assert.Equal(t, 2*time.Second, backoff(1))
	assert.Equal(t, 4*time.Second, backoff(2))
	// Capped.
	assert.Equal(t, 10*time.Second, backoff(5))
}

func TestPolicyFromConfig(t *testing.T) {
	p := PolicyFromConfig(config.RetryConfig{
		MaxAttempts:       4,
		InitialBackoffMS:  1000,
		BackoffMultiplier: 2.0,
		MaxBackoffMS:      30000,
	})

	assert.Equal(t, 4, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Backoff(0))
	assert.True(t, p.Retryable(transientErr()))
	assert.False(t, p.Retryable(fatalErr()))
}
