package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguso/email-agent-core/core"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	boom := errors.New("flaky")
	attempts := 0

	inner := NewFunc("flaky", func(_ context.Context, input any) (any, error) {
		attempts++
		if attempts < 3 {
			return nil, boom
		}
		return input, nil
	})

	r := NewRetry(inner, func(o *RetryOptions) {
		o.MaxAttempts = 3
		o.InitialBackoff = time.Millisecond
	})

	out, err := core.Invoke(context.Background(), r, "ok", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, attempts)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("always")
	attempts := 0

	inner := NewFunc("hopeless", func(context.Context, any) (any, error) {
		attempts++
		return nil, boom
	})

	r := NewRetry(inner, func(o *RetryOptions) {
		o.MaxAttempts = 2
		o.InitialBackoff = time.Millisecond
	})

	_, err := core.Invoke(context.Background(), r, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "2 attempts")
	assert.Equal(t, 2, attempts)
}

func TestRetry_FirstAttemptSuccessSkipsBackoff(t *testing.T) {
	inner := NewFunc("solid", func(_ context.Context, input any) (any, error) {
		return input, nil
	})

	r := NewRetry(inner, func(o *RetryOptions) {
		o.InitialBackoff = time.Hour
	})

	start := time.Now()
	out, err := core.Invoke(context.Background(), r, "fast", nil)
	require.NoError(t, err)
	assert.Equal(t, "fast", out)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetry_CancelledBetweenAttempts(t *testing.T) {
	boom := errors.New("boom")
	ctx, cancel := context.WithCancel(context.Background())

	inner := NewFunc("flaky", func(context.Context, any) (any, error) {
		cancel()
		return nil, boom
	})

	r := NewRetry(inner, func(o *RetryOptions) {
		o.MaxAttempts = 5
		o.InitialBackoff = time.Hour
	})

	_, err := core.Invoke(ctx, r, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry_Name(t *testing.T) {
	r := NewRetry(NewFunc("inner", nil))
	assert.Equal(t, "retry(inner)", r.Name())
}

func TestRetry_InnerObserversFirePerAttempt(t *testing.T) {
	boom := errors.New("boom")
	failures := 0
	rc := core.NewRunContext(core.WithObservers(core.FuncObserver{
		Failure: func(context.Context, *core.Run, error) { failures++ },
	}))

	inner := NewFunc("hopeless", func(context.Context, any) (any, error) {
		return nil, boom
	})

	r := NewRetry(inner, func(o *RetryOptions) {
		o.MaxAttempts = 3
		o.InitialBackoff = time.Millisecond
	})

	_, err := core.Invoke(context.Background(), r, nil, rc)
	require.Error(t, err)
	// Three inner failures plus the retry wrapper's own failure.
	assert.Equal(t, 4, failures)
}
