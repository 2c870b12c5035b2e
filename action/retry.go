package action

import (
	"context"
	"fmt"
	"time"

	"github.com/pguso/email-agent-core/core"
)

// RetryOptions configures a Retry decorator.
type RetryOptions struct {
	// MaxAttempts is the total number of invocations, including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the second attempt.
	InitialBackoff time.Duration

	// BackoffMultiplier scales the delay after every failed attempt.
	BackoffMultiplier float64
}

// Retry wraps an inner action and re-invokes it on failure with exponential
// backoff. The core itself never retries; layering behavior like this
// around a unit is the intended extension mechanism.
type Retry struct {
	inner core.Action
	opts  RetryOptions
}

var _ core.Action = (*Retry)(nil)

// NewRetry constructs a Retry decorator around inner.
func NewRetry(inner core.Action, optFns ...func(o *RetryOptions)) *Retry {
	opts := RetryOptions{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		BackoffMultiplier: 2,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.BackoffMultiplier < 1 {
		opts.BackoffMultiplier = 1
	}

	return &Retry{inner: inner, opts: opts}
}

// Name implements core.Action.
func (a *Retry) Name() string { return fmt.Sprintf("retry(%s)", a.inner.Name()) }

// Run invokes the inner action up to MaxAttempts times. The inner action's
// observers fire per attempt. Context cancellation aborts between attempts.
func (a *Retry) Run(ctx context.Context, input any, rc *core.RunContext) (any, error) {
	backoff := a.opts.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= a.opts.MaxAttempts; attempt++ {
		out, err := core.Invoke(ctx, a.inner, input, rc)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == a.opts.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * a.opts.BackoffMultiplier)
	}

	return nil, fmt.Errorf("%d attempts: %w", a.opts.MaxAttempts, lastErr)
}
