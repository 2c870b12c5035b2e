package core

import (
	"context"

	"github.com/pguso/email-agent-core/logging"
)

// RunContext carries the per-invocation configuration passed alongside an
// action's input: the lifecycle observers to notify and the logger available
// to concrete actions. It is a closed struct rather than a free-form bag so
// every field an action may rely on is enumerated here.
//
// A nil RunContext is valid everywhere and equivalent to an empty one.
type RunContext struct {
	// Observers are notified of run start, success and failure. Observer
	// outcomes never mask or replace the run result.
	Observers []Observer

	// Logger is available to concrete actions. Nil means no logging.
	Logger logging.Logger
}

// NewRunContext constructs a RunContext from functional options.
func NewRunContext(optFns ...func(rc *RunContext)) *RunContext {
	rc := &RunContext{}
	for _, fn := range optFns {
		fn(rc)
	}
	return rc
}

// WithObservers returns an option appending observers to the context.
func WithObservers(observers ...Observer) func(rc *RunContext) {
	return func(rc *RunContext) {
		rc.Observers = append(rc.Observers, observers...)
	}
}

// WithLogger returns an option setting the context logger.
func WithLogger(logger logging.Logger) func(rc *RunContext) {
	return func(rc *RunContext) {
		rc.Logger = logger
	}
}

// GetLogger returns the configured logger, substituting a NoOpLogger so
// callers never need a nil check.
func (rc *RunContext) GetLogger() logging.Logger {
	if rc == nil || rc.Logger == nil {
		return logging.NoOpLogger{}
	}
	return rc.Logger
}

func (rc *RunContext) orEmpty() *RunContext {
	if rc == nil {
		return &RunContext{}
	}
	return rc
}

func (rc *RunContext) notifyStart(ctx context.Context, run *Run) {
	for _, o := range rc.Observers {
		if o != nil {
			o.OnStart(ctx, run)
		}
	}
}

func (rc *RunContext) notifySuccess(ctx context.Context, run *Run, output any) {
	for _, o := range rc.Observers {
		if o != nil {
			o.OnSuccess(ctx, run, output)
		}
	}
}

func (rc *RunContext) notifyFailure(ctx context.Context, run *Run, err error) {
	for _, o := range rc.Observers {
		if o != nil {
			o.OnFailure(ctx, run, err)
		}
	}
}
