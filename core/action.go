package core

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Action is the uniform contract every processing step implements.
//
// Run is the step's transform. It is never called directly by consumers;
// the package-level entrypoints (Invoke, Stream, Batch) wrap it with
// lifecycle observation and uniform error propagation. Implementations
// must respect context cancellation and must not mutate shared state.
type Action interface {
	// Name returns the step identifier used in diagnostics and logging.
	Name() string

	// Run transforms input into an output. rc is never nil when invoked
	// through the package entrypoints.
	Run(ctx context.Context, input any, rc *RunContext) (any, error)
}

// Streamer is implemented by actions with genuine incremental output.
// Actions that do not implement it still stream through Stream, yielding
// their full Invoke result as a single chunk.
type Streamer interface {
	Action

	// RunStream produces a lazy, finite, non-restartable chunk sequence.
	// Both channels are closed by the producer; the error channel carries
	// at most one terminal error.
	RunStream(ctx context.Context, input any, rc *RunContext) (<-chan any, <-chan error)
}

// Invoke executes a single-shot action run: start observers, the action's
// transform, then success observers on the result or failure observers on
// error. The returned error wraps the transform error with the action name;
// the original error remains reachable via errors.Is / errors.As.
func Invoke(ctx context.Context, a Action, input any, rc *RunContext) (any, error) {
	if a == nil {
		return nil, ErrNilAction
	}

	rc = rc.orEmpty()
	run := newRun(a, input)

	rc.notifyStart(ctx, run)

	out, err := a.Run(ctx, input, rc)
	if err != nil {
		rc.notifyFailure(ctx, run, err)
		return nil, fmt.Errorf("action %s: %w", a.Name(), err)
	}

	rc.notifySuccess(ctx, run, out)

	return out, nil
}

// Stream executes an action with streaming output. Actions implementing
// Streamer yield their native chunks; all others yield exactly one chunk
// equal to the Invoke result. Both channels are closed when the stream
// terminates; the error channel carries at most one terminal error.
// Observers see the run start before the first chunk and its outcome after
// the last.
func Stream(ctx context.Context, a Action, input any, rc *RunContext) (<-chan any, <-chan error) {
	out := make(chan any, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		if a == nil {
			errCh <- ErrNilAction
			return
		}

		rc := rc.orEmpty()
		run := newRun(a, input)

		rc.notifyStart(ctx, run)

		s, ok := a.(Streamer)
		if !ok {
			res, err := a.Run(ctx, input, rc)
			if err != nil {
				rc.notifyFailure(ctx, run, err)
				errCh <- fmt.Errorf("action %s: %w", a.Name(), err)
				return
			}

			select {
			case <-ctx.Done():
				rc.notifyFailure(ctx, run, ctx.Err())
				errCh <- fmt.Errorf("action %s: %w", a.Name(), ctx.Err())
			case out <- res:
				rc.notifySuccess(ctx, run, res)
			}

			return
		}

		chunks, errs := s.RunStream(ctx, input, rc)

		var last any
		for chunk := range chunks {
			last = chunk
			select {
			case <-ctx.Done():
				rc.notifyFailure(ctx, run, ctx.Err())
				errCh <- fmt.Errorf("action %s: %w", a.Name(), ctx.Err())
				return
			case out <- chunk:
			}
		}

		if err := <-errs; err != nil {
			rc.notifyFailure(ctx, run, err)
			errCh <- fmt.Errorf("action %s: %w", a.Name(), err)
			return
		}

		rc.notifySuccess(ctx, run, last)
	}()

	return out, errCh
}

// DefaultBatchConcurrency bounds concurrent invocations per Batch call when
// no explicit limit is configured.
const DefaultBatchConcurrency = 5

// BatchOptions configures Batch scheduling.
type BatchOptions struct {
	// Concurrency limits the number of invocations in flight. Values < 1
	// fall back to DefaultBatchConcurrency.
	Concurrency int
}

// Batch invokes the action over every input concurrently and returns the
// outputs in input order regardless of completion order.
//
// Failures are isolated per input: a failing input leaves a nil slot in the
// output slice while the remaining inputs still complete. The returned error
// joins every per-input failure (each wrapped with its input index) and is
// nil when all inputs succeed.
func Batch(ctx context.Context, a Action, inputs []any, rc *RunContext, optFns ...func(o *BatchOptions)) ([]any, error) {
	if a == nil {
		return nil, ErrNilAction
	}

	opts := BatchOptions{Concurrency: DefaultBatchConcurrency}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultBatchConcurrency
	}

	outputs := make([]any, len(inputs))
	failures := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			out, err := Invoke(ctx, a, input, rc)
			if err != nil {
				failures[i] = fmt.Errorf("input %d: %w", i, err)
				return nil
			}
			outputs[i] = out
			return nil
		})
	}

	// Workers never return errors; per-input failures are collected above.
	_ = g.Wait()

	return outputs, errors.Join(failures...)
}
