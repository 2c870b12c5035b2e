package model

import (
	"context"
	"fmt"

	"github.com/pguso/email-agent-core/core"
)

// Mock is a lightweight in-memory Model useful for tests & examples. It
// maps the final user message text to a canned completion, streaming rune
// chunks first when streaming is requested.
type Mock struct {
	info        Info
	responses   map[string]string
	defaultResp string
	err         error
}

// NewMock constructs a Mock with streaming support enabled.
func NewMock(name string) *Mock {
	return &Mock{
		info: Info{
			Name:              name,
			Provider:          "mock",
			SupportsStreaming: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *Mock) AddResponse(prompt, response string) { m.responses[prompt] = response }

// SetDefault registers the completion returned when no canned response
// matches the prompt.
func (m *Mock) SetDefault(response string) { m.defaultResp = response }

// FailWith makes every subsequent Generate call fail with err.
func (m *Mock) FailWith(err error) { m.err = err }

// Generate implements Model; emits optional streaming rune chunks then the
// final response.
func (m *Mock) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if m.err != nil {
			errCh <- m.err
			return
		}
		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}

		inputText := req.Messages[len(req.Messages)-1].Content
		full := m.responses[inputText]
		if full == "" {
			full = m.defaultResp
		}
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", inputText)
		}

		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{
					Partial: true,
					Message: core.NewAssistantMessage(string(r)),
				}:
				}
			}
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- Response{
			Message:      core.NewAssistantMessage(full),
			FinishReason: "stop",
		}:
		}
	}()

	return respCh, errCh
}

// Info implements Model interface.
func (m *Mock) Info() Info { return m.info }
