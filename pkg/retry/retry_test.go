package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/tgsn-co/XPlore/pkg/errors"
	"github.com/tgsn-co/XPlore/pkg/logger"
)

func testConfig(attempts int, backoff BackoffStrategy, retryIf func(error) bool) *Config {
	return &Config{
		MaxAttempts: attempts,
		Backoff:     backoff,
		RetryIf:     retryIf,
		Context:     context.Background(),
		Logger:      logger.NewNopLogger(),
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, testConfig(3, &ConstantBackoff{Delay: time.Millisecond}, DefaultRetryIf))

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.FromStatusCode(500, "flaky")
		}
		return nil
	}, testConfig(5, &ConstantBackoff{Delay: time.Millisecond}, DefaultRetryIf))

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.FromStatusCode(503, "down")
	}, testConfig(3, &ConstantBackoff{Delay: time.Millisecond}, DefaultRetryIf))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "max retry attempts (3) exceeded")
	assert.Contains(t, err.Error(), "down")
}

func TestDoNonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.FromStatusCode(403, "Forbidden")
	}, testConfig(5, &ConstantBackoff{Delay: time.Millisecond}, DefaultRetryIf))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "Forbidden")
}

func TestDoContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := testConfig(3, &ConstantBackoff{Delay: time.Minute}, DefaultRetryIf)
	cfg.Context = ctx

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(func() error {
		return errs.FromStatusCode(500, "boom")
	}, cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry cancelled")
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	result, err := DoWithResult(func() (string, error) {
		calls++
		if calls < 2 {
			return "", errs.FromStatusCode(429, "slow down")
		}
		return "payload", nil
	}, testConfig(3, &ConstantBackoff{Delay: time.Millisecond}, DefaultRetryIf))

	require.NoError(t, err)
	assert.Equal(t, "payload", result)
	assert.Equal(t, 2, calls)
}

func TestRateLimitOnly(t *testing.T) {
	assert.True(t, RateLimitOnly(errs.FromStatusCode(429, "limit")))
	assert.True(t, RateLimitOnly(fmt.Errorf("wrapped: %w", errs.FromStatusCode(429, "limit"))))
	assert.False(t, RateLimitOnly(errs.FromStatusCode(500, "server")))
	assert.False(t, RateLimitOnly(errs.FromStatusCode(403, "auth")))
	assert.False(t, RateLimitOnly(fmt.Errorf("plain")))
	assert.False(t, RateLimitOnly(nil))
}

func TestRateLimitPolicyRetriesOnce(t *testing.T) {
	cfg := NewRateLimitPolicy(context.Background(), 10*time.Millisecond, 2, logger.NewNopLogger())

	var delays []time.Duration
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		delays = append(delays, delay)
	}

	calls := 0
	err := Do(func() error {
		calls++
		if calls == 1 {
			return errs.FromStatusCode(429, "Too Many Requests")
		}
		return nil
	}, cfg)

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, delays, 1)
	assert.Equal(t, 10*time.Millisecond, delays[0])
}

func TestRateLimitPolicySecondRateLimitFails(t *testing.T) {
	cfg := NewRateLimitPolicy(context.Background(), time.Millisecond, 2, logger.NewNopLogger())

	calls := 0
	err := Do(func() error {
		calls++
		return errs.FromStatusCode(429, "Too Many Requests")
	}, cfg)

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, errs.IsRateLimit(err))
	assert.Contains(t, err.Error(), "Too Many Requests")
}

func TestRateLimitPolicyOtherErrorsFailFast(t *testing.T) {
	cfg := NewRateLimitPolicy(context.Background(), time.Millisecond, 2, logger.NewNopLogger())

	for _, status := range []int{400, 401, 403, 404, 500, 503} {
		calls := 0
		err := Do(func() error {
			calls++
			return errs.FromStatusCode(status, "nope")
		}, cfg)

		require.Error(t, err, "status %d", status)
		assert.Equal(t, 1, calls, "status %d must not retry", status)
	}
}

func TestRetrierBuilders(t *testing.T) {
	base := NewRetrier(testConfig(1, &ConstantBackoff{Delay: time.Millisecond}, DefaultRetryIf))

	calls := 0
	err := base.WithMaxAttempts(4).Do(func() error {
		calls++
		if calls < 4 {
			return errs.FromStatusCode(500, "flaky")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, calls)

	// The original retrier keeps its own attempt cap
	calls = 0
	err = base.Do(func() error {
		calls++
		return errs.FromStatusCode(500, "flaky")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExponentialBackoffDelays(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
	}

	assert.Equal(t, time.Duration(0), eb.NextDelay(0))
	assert.Equal(t, time.Second, eb.NextDelay(1))
	assert.Equal(t, 2*time.Second, eb.NextDelay(2))
	assert.Equal(t, 4*time.Second, eb.NextDelay(3))
	// Capped at MaxDelay
	assert.Equal(t, 10*time.Second, eb.NextDelay(10))
}

func TestLinearBackoffDelays(t *testing.T) {
	lb := &LinearBackoff{
		BaseDelay: time.Second,
		MaxDelay:  3 * time.Second,
		Increment: time.Second,
	}

	assert.Equal(t, time.Second, lb.NextDelay(1))
	assert.Equal(t, 2*time.Second, lb.NextDelay(2))
	assert.Equal(t, 3*time.Second, lb.NextDelay(3))
	assert.Equal(t, 3*time.Second, lb.NextDelay(5))
}

func TestConstantBackoffDelays(t *testing.T) {
	cb := &ConstantBackoff{Delay: 901 * time.Second}

	assert.Equal(t, time.Duration(0), cb.NextDelay(0))
	assert.Equal(t, 901*time.Second, cb.NextDelay(1))
	assert.Equal(t, 901*time.Second, cb.NextDelay(7))
}

func TestWait(t *testing.T) {
	start := time.Now()
	err := Wait(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	// Zero and negative delays return immediately
	assert.NoError(t, Wait(context.Background(), 0))
	assert.NoError(t, Wait(context.Background(), -time.Second))
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Wait(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
