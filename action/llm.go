package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pguso/email-agent-core/core"
	"github.com/pguso/email-agent-core/history"
	"github.com/pguso/email-agent-core/logging"
	"github.com/pguso/email-agent-core/model"
	"github.com/pguso/email-agent-core/outputparser"
	"github.com/pguso/email-agent-core/prompt"
)

// DefaultInputKey is the template variable a plain string input binds to.
const DefaultInputKey = "input"

// LLMOptions configures an LLM action.
type LLMOptions struct {
	// System is the backend-level instruction for every call.
	System string

	// Parser converts the generated text into the action's output. Nil
	// returns the raw text.
	Parser outputparser.Parser

	// Config are the generation parameters passed to the backend. A fresh
	// random seed is applied per call when Temperature > 0 and no seed is
	// set.
	Config model.Config

	// History is prepended to every call's conversation. System messages
	// inside it are folded into the system instruction.
	History []core.Message

	// HistoryStore persists the running conversation across invocations.
	// When set together with SessionID, recorded messages are inserted after
	// History and the prompt/response pair is recorded after a successful
	// run. Config.ClearHistory drops the session's record before the call.
	HistoryStore history.Store

	// SessionID keys the conversation in HistoryStore.
	SessionID string

	// AppendFormatInstructions embeds the parser's format instructions
	// into the rendered prompt.
	AppendFormatInstructions bool

	// InputKey is the template variable a plain string input binds to.
	InputKey string
}

// LLM is the generation building block: it renders a prompt from its
// template, dispatches to the backend model and parses the result. It
// implements core.Streamer, yielding the backend's partial text chunks.
//
// Without a HistoryStore an LLM is stateless across calls; concurrent
// invocation is safe as long as the backend adapter tolerates it.
type LLM struct {
	name     string
	model    model.Model
	template *prompt.Template
	opts     LLMOptions
}

var (
	_ core.Action   = (*LLM)(nil)
	_ core.Streamer = (*LLM)(nil)
)

// NewLLM constructs an LLM action from a backend model and a prompt template.
func NewLLM(name string, m model.Model, tpl *prompt.Template, optFns ...func(o *LLMOptions)) *LLM {
	opts := LLMOptions{
		InputKey: DefaultInputKey,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.InputKey == "" {
		opts.InputKey = DefaultInputKey
	}

	return &LLM{name: name, model: m, template: tpl, opts: opts}
}

// Name implements core.Action.
func (a *LLM) Name() string { return a.name }

// Run implements core.Action: render, generate, parse.
func (a *LLM) Run(ctx context.Context, input any, rc *core.RunContext) (any, error) {
	stored, err := a.loadHistory()
	if err != nil {
		return nil, err
	}

	req, err := a.buildRequest(input, false, stored)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	respCh, errCh := a.model.Generate(ctx, req)

	resp, err := model.Final(ctx, respCh, errCh)
	if err != nil {
		a.logModelCall(rc, nil, time.Since(started), err)
		return nil, err
	}

	a.logModelCall(rc, &resp, time.Since(started), nil)

	if a.opts.HistoryStore != nil && a.opts.SessionID != "" {
		promptMsg := req.Messages[len(req.Messages)-1]
		if err := a.opts.HistoryStore.Append(a.opts.SessionID, promptMsg, resp.Message); err != nil {
			return nil, fmt.Errorf("action %s: record history: %w", a.name, err)
		}
	}

	if a.opts.Parser == nil {
		return resp.Message.Content, nil
	}

	return a.opts.Parser.Parse(resp.Message.Content)
}

// logModelCall records the backend call through the run's logger. An
// AgentLogger gets the structured model call record with token usage; any
// other logger gets a debug line.
func (a *LLM) logModelCall(rc *core.RunContext, resp *model.Response, dur time.Duration, err error) {
	name := a.model.Info().Name

	al, ok := rc.GetLogger().(*logging.AgentLogger)
	if !ok {
		if err == nil {
			rc.GetLogger().Debug("model call completed", "action", a.name, "model", name, "finish_reason", resp.FinishReason)
		}
		return
	}

	tokens := 0
	if resp != nil && resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	al.WithComponent("action/" + a.name).LogModelCall(name, tokens, dur, err)
}

// loadHistory returns the persisted conversation for the configured session,
// clearing it first when the generation config asks for a fresh start.
func (a *LLM) loadHistory() ([]core.Message, error) {
	if a.opts.HistoryStore == nil || a.opts.SessionID == "" {
		return nil, nil
	}

	if a.opts.Config.ClearHistory {
		if err := a.opts.HistoryStore.Clear(a.opts.SessionID); err != nil && !errors.Is(err, history.ErrSessionNotFound) {
			return nil, fmt.Errorf("action %s: clear history: %w", a.name, err)
		}
		return nil, nil
	}

	msgs, err := a.opts.HistoryStore.Messages(a.opts.SessionID)
	if err != nil {
		return nil, fmt.Errorf("action %s: load history: %w", a.name, err)
	}
	return msgs, nil
}

// RunStream implements core.Streamer. Chunks are the backend's partial text
// deltas; the parser is not applied mid-stream, so consumers needing the
// parsed value use Invoke instead.
func (a *LLM) RunStream(ctx context.Context, input any, rc *core.RunContext) (<-chan any, <-chan error) {
	out := make(chan any, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		// Streamed runs read persisted history but do not record the
		// exchange; partial chunks never form a complete assistant message.
		stored, err := a.loadHistory()
		if err != nil {
			errCh <- err
			return
		}

		req, err := a.buildRequest(input, a.model.Info().SupportsStreaming, stored)
		if err != nil {
			errCh <- err
			return
		}

		respCh, modelErrCh := a.model.Generate(ctx, req)

		sawPartial := false
		for resp := range respCh {
			if !resp.Partial {
				if sawPartial {
					continue
				}
				// Backend produced a single final response; forward it
				// as the one chunk.
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- resp.Message.Content:
				}
				continue
			}

			sawPartial = true
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- resp.Message.Content:
			}
		}

		if err := <-modelErrCh; err != nil {
			errCh <- err
		}
	}()

	return out, errCh
}

// buildRequest renders the prompt and assembles the normalized model
// request. stored is the persisted conversation inserted between the static
// history and the rendered prompt.
func (a *LLM) buildRequest(input any, stream bool, stored []core.Message) (model.Request, error) {
	vars, err := a.variables(input)
	if err != nil {
		return model.Request{}, err
	}

	text, err := a.template.Render(vars)
	if err != nil {
		return model.Request{}, err
	}

	if a.opts.Parser != nil && a.opts.AppendFormatInstructions {
		text += "\n\n" + a.opts.Parser.FormatInstructions()
	}

	system, hist := model.SplitSystem(a.opts.History)
	if a.opts.System != "" {
		if system != "" {
			system = a.opts.System + "\n\n" + system
		} else {
			system = a.opts.System
		}
	}

	messages := make([]core.Message, 0, len(hist)+len(stored)+1)
	messages = append(messages, hist...)
	messages = append(messages, stored...)
	messages = append(messages, core.NewUserMessage(text))

	return model.Request{
		System:   system,
		Messages: messages,
		Config:   model.EnsureSeed(a.opts.Config),
		Stream:   stream,
	}, nil
}

func (a *LLM) variables(input any) (map[string]any, error) {
	switch v := input.(type) {
	case map[string]any:
		return v, nil
	case string:
		return map[string]any{a.opts.InputKey: v}, nil
	case core.Message:
		return map[string]any{a.opts.InputKey: v.Content}, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("action %s: unsupported input type %T", a.name, input)
	}
}
