package action

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguso/email-agent-core/core"
)

func TestRateLimit_PassesThrough(t *testing.T) {
	inner := NewFunc("ident", func(_ context.Context, input any) (any, error) {
		return input, nil
	})

	rl := NewRateLimit(inner, rate.NewLimiter(rate.Inf, 1))

	out, err := core.Invoke(context.Background(), rl, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestRateLimit_PacesInvocations(t *testing.T) {
	inner := NewFunc("ident", func(_ context.Context, input any) (any, error) {
		return input, nil
	})

	// 1 token, refill every 50ms: the second call must wait.
	rl := NewRateLimit(inner, rate.NewLimiter(rate.Every(50*time.Millisecond), 1))

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := core.Invoke(context.Background(), rl, i, nil)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRateLimit_CancelledWait(t *testing.T) {
	inner := NewFunc("ident", func(_ context.Context, input any) (any, error) {
		return input, nil
	})

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	limiter.Allow() // drain the bucket

	rl := NewRateLimit(inner, limiter)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := core.Invoke(ctx, rl, nil, nil)
	assert.Error(t, err)
}

func TestRateLimit_NilLimiter(t *testing.T) {
	inner := NewFunc("ident", func(_ context.Context, input any) (any, error) {
		return input, nil
	})

	rl := NewRateLimit(inner, nil)

	out, err := core.Invoke(context.Background(), rl, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestRateLimit_Name(t *testing.T) {
	rl := NewRateLimit(NewFunc("inner", nil), nil)
	assert.Equal(t, "ratelimit(inner)", rl.Name())
}
