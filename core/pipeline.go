package core

import (
	"context"
	"fmt"
	"strings"
)

// Pipeline is an ordered composition of actions where each step's output
// becomes the next step's input. A Pipeline is itself an Action (and a
// Streamer), so pipelines compose with any other step.
//
// Pipelines are immutable: Chain returns a new pipeline with the appended
// steps and never mutates the receiver. Chaining flattens nested pipelines
// so the step list stays inspectable; chaining a, b, c always yields three
// steps, never a pipeline containing a pipeline.
type Pipeline struct {
	steps []Action
}

// NewPipeline builds a pipeline from the given steps, flattening any step
// that is itself a pipeline. At least one step is required and no step may
// be nil.
func NewPipeline(steps ...Action) (*Pipeline, error) {
	flat := flattenAll(steps)
	if len(flat) == 0 {
		return nil, ErrEmptyPipeline
	}
	for _, s := range flat {
		if s == nil {
			return nil, ErrNilAction
		}
	}
	return &Pipeline{steps: flat}, nil
}

// Chain composes one or more actions into a pipeline. It is the variadic
// form of Action.chain: Chain(a, b, c) is a.chain(b).chain(c). The non-empty
// signature makes an empty pipeline unrepresentable here; a nil step is kept
// and surfaces as ErrNilAction when the pipeline runs.
func Chain(first Action, rest ...Action) *Pipeline {
	flat := flattenAll(append([]Action{first}, rest...))
	return &Pipeline{steps: flat}
}

// Chain returns a new pipeline with next's steps appended. The receiver is
// left untouched, so independent pipelines can be derived from a common base.
func (p *Pipeline) Chain(next Action) *Pipeline {
	steps := make([]Action, 0, len(p.steps)+1)
	steps = append(steps, p.steps...)
	steps = append(steps, flatten(next)...)
	return &Pipeline{steps: steps}
}

// Steps returns a copy of the ordered step list.
func (p *Pipeline) Steps() []Action {
	steps := make([]Action, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// Name implements Action. The name lists the step names in execution order.
func (p *Pipeline) Name() string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		if s == nil {
			names[i] = "<nil>"
			continue
		}
		names[i] = s.Name()
	}
	return fmt.Sprintf("pipeline(%s)", strings.Join(names, " -> "))
}

// Run implements Action by folding the input through every step's Invoke in
// order. A failing step stops the fold; later steps never execute and no
// compensation of earlier steps occurs. Cancellation is checked between
// steps so a cancelled context stops the pipeline at a step boundary.
func (p *Pipeline) Run(ctx context.Context, input any, rc *RunContext) (any, error) {
	if len(p.steps) == 0 {
		return nil, ErrEmptyPipeline
	}

	current := input
	for i, step := range p.steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := Invoke(ctx, step, current, rc)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		current = out
	}
	return current, nil
}

// RunStream implements Streamer. Every step except the last runs via plain
// Invoke; the final step's stream is then delegated to, so only the tail of
// the pipeline produces incremental chunks.
func (p *Pipeline) RunStream(ctx context.Context, input any, rc *RunContext) (<-chan any, <-chan error) {
	if len(p.steps) == 0 {
		errCh := make(chan error, 1)
		errCh <- ErrEmptyPipeline
		close(errCh)
		closed := make(chan any)
		close(closed)
		return closed, errCh
	}

	last := len(p.steps) - 1

	current := input
	for i, step := range p.steps[:last] {
		out, err := Invoke(ctx, step, current, rc)
		if err != nil {
			errCh := make(chan error, 1)
			errCh <- fmt.Errorf("step %d: %w", i+1, err)
			close(errCh)
			closed := make(chan any)
			close(closed)
			return closed, errCh
		}
		current = out
	}

	return Stream(ctx, p.steps[last], current, rc)
}

func flatten(a Action) []Action {
	if inner, ok := a.(*Pipeline); ok && inner != nil {
		return inner.steps
	}
	return []Action{a}
}

// flattenAll keeps nil steps instead of dropping them; a nil step fails as
// ErrNilAction at run time rather than silently shortening the pipeline.
func flattenAll(actions []Action) []Action {
	var flat []Action
	for _, a := range actions {
		flat = append(flat, flatten(a)...)
	}
	return flat
}
