package action

import (
	"context"
	"errors"

	"github.com/pguso/email-agent-core/core"
)

// ErrNilFunc is returned when a Func action was constructed without a
// function. This is a programmer error surfaced at run time rather than a
// user condition.
var ErrNilFunc = errors.New("action: nil function")

// Func wraps a plain function as a core.Action, the quickest way to drop
// custom logic into a pipeline.
type Func struct {
	name string
	fn   func(ctx context.Context, input any) (any, error)
}

var _ core.Action = (*Func)(nil)

// NewFunc constructs a Func action.
func NewFunc(name string, fn func(ctx context.Context, input any) (any, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements core.Action.
func (a *Func) Name() string { return a.name }

// Run implements core.Action by delegating to the wrapped function.
func (a *Func) Run(ctx context.Context, input any, _ *core.RunContext) (any, error) {
	if a.fn == nil {
		return nil, ErrNilFunc
	}
	return a.fn(ctx, input)
}
