package model

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pguso/email-agent-core/core"
)

// Config carries the generation parameters a backend adapter consumes.
type Config struct {
	// Temperature controls sampling randomness. Zero is deterministic
	// for backends that support it.
	Temperature float64 `json:"temperature"`

	// TopP enables nucleus sampling when > 0.
	TopP float64 `json:"top_p,omitempty"`

	// TopK limits sampling to the k most likely tokens when > 0.
	TopK int `json:"top_k,omitempty"`

	// MaxTokens caps the generated output length.
	MaxTokens int `json:"max_tokens,omitempty"`

	// RepeatPenalty discourages repetition when > 0.
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`

	// StopStrings terminate generation when produced.
	StopStrings []string `json:"stop_strings,omitempty"`

	// Seed fixes the sampling seed. Nil means no explicit seed; see
	// EnsureSeed for the per-call randomization applied in that case.
	Seed *uint64 `json:"seed,omitempty"`

	// ClearHistory asks the backend to drop any conversation state it
	// holds before this call, so batch processing cannot leak context
	// between inputs.
	ClearHistory bool `json:"clear_history,omitempty"`
}

// Request captures the normalized model input produced by actions.
type Request struct {
	// System is the backend-level instruction, already separated from the
	// conversation history.
	System string `json:"system,omitempty"`

	// Messages is the ordered conversation history ending with the prompt.
	Messages []core.Message `json:"messages"`

	// Config are the generation parameters for this call.
	Config Config `json:"config"`

	// Stream requests partial chunks instead of a single final response.
	Stream bool `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model.
type Response struct {
	ID           string       `json:"id"`
	Partial      bool         `json:"partial"`
	Message      core.Message `json:"message"`
	FinishReason string       `json:"finish_reason,omitempty"` // "stop", "length", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name              string `json:"name"`
	Provider          string `json:"provider"` // "openai", "anthropic", "local", "mock", ...
	SupportsStreaming bool   `json:"supports_streaming"`
}

// Model is the minimal interface required to drive generation. Generate
// returns a response channel and an error channel; both are closed by the
// producer when generation terminates, and the error channel carries at
// most one terminal error. An adapter wrapping an exclusive resource (a
// single loaded model) is responsible for its own serialization.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// SplitSystem extracts every system message from the list, joining their
// contents into a single backend-level instruction, and returns the
// remaining messages in their original order.
func SplitSystem(msgs []core.Message) (string, []core.Message) {
	var system []string
	rest := make([]core.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}

// EnsureSeed applies a fresh random seed when sampling is non-deterministic
// (Temperature > 0) and the caller supplied none, so repeated calls do not
// degenerate into identical outputs on backends with a sticky default seed.
func EnsureSeed(cfg Config) Config {
	if cfg.Temperature > 0 && cfg.Seed == nil {
		seed := rand.Uint64()
		cfg.Seed = &seed
	}
	return cfg
}

// Final drains a Generate channel pair and returns the terminal response.
// Partial chunks are accumulated so a stream that closes without a final
// response still yields the concatenated text. A backend error or context
// cancellation aborts the drain.
func Final(ctx context.Context, respCh <-chan Response, errCh <-chan error) (Response, error) {
	var (
		partial  strings.Builder
		last     Response
		sawFinal bool
	)

	for {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()

		case resp, ok := <-respCh:
			if !ok {
				if err := <-errCh; err != nil {
					return Response{}, fmt.Errorf("model: %w", err)
				}
				if sawFinal {
					return last, nil
				}
				return Response{
					Message: core.NewAssistantMessage(partial.String()),
				}, nil
			}
			if resp.Partial {
				partial.WriteString(resp.Message.Content)
				continue
			}
			last = resp
			sawFinal = true
		}
	}
}
