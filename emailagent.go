// Package emailagent provides a high-level façade over the core execution
// contract, enabling rapid construction of email-oriented LLM pipelines.
// Most applications interact with this package by:
//  1. Creating an Agent via New() (optionally overriding logger and observers)
//  2. Building actions (prebuilt mail units, action.LLM, action.Func, decorators)
//  3. Composing them with Chain and invoking the result (Invoke, Stream, Batch)
//
// The façade only binds a shared run context; all orchestration semantics
// live in the core package. Defaults are safe for local development and
// testing; production deployments typically supply a structured logger and
// metrics observers.
package emailagent

import (
	"context"
	"time"

	"github.com/pguso/email-agent-core/core"
	"github.com/pguso/email-agent-core/logging"
)

// Action and Observer alias the core contracts so facade consumers rarely
// need a direct core import.
type (
	Action   = core.Action
	Observer = core.Observer
)

// Options configures the Agent instance.
type Options struct {
	// Logger made available to every action run (defaults to NoOp).
	Logger logging.Logger

	// Observers notified of every run's lifecycle.
	Observers []core.Observer
}

// Agent is the high-level façade binding a run context to the core
// entrypoints.
type Agent struct {
	rc *core.RunContext
}

// New creates a new Agent with optional overrides.
func New(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Agent{
		rc: core.NewRunContext(
			core.WithLogger(opts.Logger),
			core.WithObservers(opts.Observers...),
		),
	}
}

// RunContext exposes the bound run context for callers composing manually.
func (a *Agent) RunContext() *core.RunContext { return a.rc }

// Invoke runs a single-shot action invocation. When the action is a pipeline
// and the agent carries a logging.AgentLogger, the aggregate pipeline run is
// recorded with its step count and duration.
func (a *Agent) Invoke(ctx context.Context, act core.Action, input any) (any, error) {
	p, isPipeline := act.(*core.Pipeline)
	al, hasAgentLogger := a.rc.GetLogger().(*logging.AgentLogger)
	if !isPipeline || !hasAgentLogger {
		return core.Invoke(ctx, act, input, a.rc)
	}

	started := time.Now()
	out, err := core.Invoke(ctx, act, input, a.rc)
	al.LogPipelineRun(p.Name(), p.Len(), time.Since(started), err)
	return out, err
}

// Stream runs an action with streaming output.
func (a *Agent) Stream(ctx context.Context, act core.Action, input any) (<-chan any, <-chan error) {
	return core.Stream(ctx, act, input, a.rc)
}

// Batch invokes an action over every input, preserving input order.
func (a *Agent) Batch(ctx context.Context, act core.Action, inputs []any, optFns ...func(o *core.BatchOptions)) ([]any, error) {
	return core.Batch(ctx, act, inputs, a.rc, optFns...)
}

// Chain composes actions into a pipeline. Nested pipelines are flattened.
func Chain(first core.Action, rest ...core.Action) *core.Pipeline {
	return core.Chain(first, rest...)
}
