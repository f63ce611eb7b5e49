package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoVal_FirstAttemptSucceeds(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), DefaultRetryConfig(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 1, calls)
}

func TestDoVal_RecoversAfterTransientFailures(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), quickRetry(3), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(errors.New("overloaded"), 503)
		}
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", val)
	assert.Equal(t, 3, calls)
}

func TestDoVal_ExhaustsAttempts(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), quickRetry(3), func(context.Context) (int, error) {
		calls++
		return 42, NewTransientError(errors.New("always down"), 500)
	})
	require.Error(t, err)
	assert.Zero(t, val)
	assert.Equal(t, 3, calls)
}

func TestDoVal_PermanentErrorStopsImmediately(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), quickRetry(3), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal_ContextCancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	cfg := quickRetry(5)
	cfg.InitialBackoff = 50 * time.Millisecond

	_, err := DoVal(ctx, cfg, func(context.Context) (int, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return 0, NewTransientError(errors.New("down"), 500)
	})
	require.Error(t, err)
	assert.LessOrEqual(t, calls, 3)
}

func TestDoVal_CustomShouldRetry(t *testing.T) {
	var calls int
	cfg := quickRetry(3)
	cfg.ShouldRetry = func(err error) bool { return err.Error() == "retry me" }

	val, err := DoVal(context.Background(), cfg, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("retry me")
		}
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", val)
	assert.Equal(t, 2, calls)
}

func TestDoVal_ZeroConfigUsesDefaults(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), RetryConfig{}, func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffDelay_ExponentialGrowth(t *testing.T) {
	cfg := withDefaults(RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
	})

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond}
	for attempt, expected := range want {
		assert.Equal(t, expected, backoffDelay(attempt, cfg), "attempt %d", attempt)
	}
}

func TestBackoffDelay_CapsAtMax(t *testing.T) {
	cfg := withDefaults(RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     5 * time.Second,
		Multiplier:     10.0,
	})
	assert.LessOrEqual(t, backoffDelay(5, cfg), 5*time.Second)
}

func TestBackoffDelay_JitterSpreadsDelays(t *testing.T) {
	cfg := withDefaults(RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.5,
	})

	seen := make(map[time.Duration]bool)
	for i := 0; i < 100; i++ {
		d := backoffDelay(0, cfg)
		seen[d] = true
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
	assert.Greater(t, len(seen), 1, "jitter should vary the delay")
}
