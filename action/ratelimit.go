package action

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/pguso/email-agent-core/core"
)

// RateLimit wraps an inner action behind a token-bucket limiter, pacing
// invocations without touching the inner unit. Share one limiter across
// several decorators to enforce a global budget.
type RateLimit struct {
	inner   core.Action
	limiter *rate.Limiter
}

var _ core.Action = (*RateLimit)(nil)

// NewRateLimit constructs a RateLimit decorator around inner.
func NewRateLimit(inner core.Action, limiter *rate.Limiter) *RateLimit {
	return &RateLimit{inner: inner, limiter: limiter}
}

// Name implements core.Action.
func (a *RateLimit) Name() string { return fmt.Sprintf("ratelimit(%s)", a.inner.Name()) }

// Run waits for limiter admission, then invokes the inner action. A
// cancelled or expired context aborts the wait.
func (a *RateLimit) Run(ctx context.Context, input any, rc *core.RunContext) (any, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return core.Invoke(ctx, a.inner, input, rc)
}
