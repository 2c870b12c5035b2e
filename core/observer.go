package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run identifies a single invocation of an action. Observers receive the
// same *Run for the start notification and the terminal outcome, so the
// record can be used to correlate and time a run.
type Run struct {
	// ID is a unique identifier for this invocation.
	ID string

	// Action is the invoked action's name.
	Action string

	// Input is the input the action was invoked with.
	Input any

	// StartedAt is the wall-clock start of the invocation.
	StartedAt time.Time
}

func newRun(a Action, input any) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Action:    a.Name(),
		Input:     input,
		StartedAt: time.Now(),
	}
}

// Observer reacts to action run lifecycle events. Implementations must be
// fast and safe for concurrent use; they have no error return so an observer
// can never absorb or replace the run's own outcome.
type Observer interface {
	// OnStart fires before the action's transform executes.
	OnStart(ctx context.Context, run *Run)

	// OnSuccess fires after a successful run with the produced output.
	OnSuccess(ctx context.Context, run *Run, output any)

	// OnFailure fires after a failed run with the transform error.
	OnFailure(ctx context.Context, run *Run, err error)
}

// FuncObserver adapts plain functions to the Observer interface. Nil fields
// are skipped, so partial observers are valid.
type FuncObserver struct {
	Start   func(ctx context.Context, run *Run)
	Success func(ctx context.Context, run *Run, output any)
	Failure func(ctx context.Context, run *Run, err error)
}

// OnStart implements Observer.
func (o FuncObserver) OnStart(ctx context.Context, run *Run) {
	if o.Start != nil {
		o.Start(ctx, run)
	}
}

// OnSuccess implements Observer.
func (o FuncObserver) OnSuccess(ctx context.Context, run *Run, output any) {
	if o.Success != nil {
		o.Success(ctx, run, output)
	}
}

// OnFailure implements Observer.
func (o FuncObserver) OnFailure(ctx context.Context, run *Run, err error) {
	if o.Failure != nil {
		o.Failure(ctx, run, err)
	}
}
