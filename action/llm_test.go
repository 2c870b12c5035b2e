package action

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguso/email-agent-core/core"
	"github.com/pguso/email-agent-core/history"
	"github.com/pguso/email-agent-core/logging"
	"github.com/pguso/email-agent-core/model"
	"github.com/pguso/email-agent-core/outputparser"
	"github.com/pguso/email-agent-core/prompt"
)

// captureModel records the last request and replies with a fixed completion.
type captureModel struct {
	last  model.Request
	reply string
	usage *model.TokenUsage
}

func (m *captureModel) Generate(_ context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	m.last = req

	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	respCh <- model.Response{
		Message:      core.NewAssistantMessage(m.reply),
		FinishReason: "stop",
		Usage:        m.usage,
	}
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (m *captureModel) Info() model.Info {
	return model.Info{Name: "capture", Provider: "mock", SupportsStreaming: false}
}

func TestLLM_RunRendersAndReturnsText(t *testing.T) {
	m := model.NewMock("m")
	m.AddResponse("Say hi", "hello")

	a := NewLLM("greeter", m, prompt.New("Say {input}"))

	out, err := core.Invoke(context.Background(), a, "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestLLM_RunWithMapInput(t *testing.T) {
	m := model.NewMock("m")
	m.AddResponse("Subject: Help\nBody: broken", "classified")

	a := NewLLM("triage", m, prompt.New("Subject: {subject}\nBody: {body}"))

	out, err := core.Invoke(context.Background(), a, map[string]any{
		"subject": "Help",
		"body":    "broken",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "classified", out)
}

func TestLLM_RunWithMessageInput(t *testing.T) {
	m := model.NewMock("m")
	m.AddResponse("Echo: ping", "pong")

	a := NewLLM("echo", m, prompt.New("Echo: {input}"))

	out, err := core.Invoke(context.Background(), a, core.NewUserMessage("ping"), nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
}

func TestLLM_RunAppliesParser(t *testing.T) {
	m := model.NewMock("m")
	m.SetDefault("```json\n{\"category\": \"spam\"}\n```")

	a := NewLLM("classify", m, prompt.New("Classify {input}"), func(o *LLMOptions) {
		o.Parser = outputparser.NewJSON()
	})

	out, err := core.Invoke(context.Background(), a, "mail", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"category": "spam"}, out)
}

func TestLLM_AppendFormatInstructions(t *testing.T) {
	parser := outputparser.NewJSON()
	m := &captureModel{reply: "{}"}

	a := NewLLM("classify", m, prompt.New("Classify {input}"), func(o *LLMOptions) {
		o.Parser = parser
		o.AppendFormatInstructions = true
	})

	_, err := core.Invoke(context.Background(), a, "mail", nil)
	require.NoError(t, err)

	require.Len(t, m.last.Messages, 1)
	assert.Equal(t, "Classify mail\n\n"+parser.FormatInstructions(), m.last.Messages[0].Content)
}

func TestLLM_SystemAndHistoryComposition(t *testing.T) {
	m := &captureModel{reply: "ok"}

	a := NewLLM("assistant", m, prompt.New("{input}"), func(o *LLMOptions) {
		o.System = "primary instruction"
		o.History = []core.Message{
			core.NewSystemMessage("from history"),
			core.NewUserMessage("earlier question"),
			core.NewAssistantMessage("earlier answer"),
		}
	})

	_, err := core.Invoke(context.Background(), a, "now", nil)
	require.NoError(t, err)

	assert.Equal(t, "primary instruction\n\nfrom history", m.last.System)
	require.Len(t, m.last.Messages, 3)
	assert.Equal(t, core.RoleUser, m.last.Messages[0].Role)
	assert.Equal(t, core.RoleAssistant, m.last.Messages[1].Role)
	assert.Equal(t, "now", m.last.Messages[2].Content)
}

func TestLLM_SeedAppliedWhenSampling(t *testing.T) {
	m := &captureModel{reply: "ok"}

	a := NewLLM("sampler", m, prompt.New("{input}"), func(o *LLMOptions) {
		o.Config = model.Config{Temperature: 0.9}
	})

	_, err := core.Invoke(context.Background(), a, "x", nil)
	require.NoError(t, err)
	assert.NotNil(t, m.last.Config.Seed)
}

func TestLLM_UnsupportedInputType(t *testing.T) {
	a := NewLLM("strict", model.NewMock("m"), prompt.New("{input}"))

	_, err := core.Invoke(context.Background(), a, 42, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input type")
}

func TestLLM_MissingTemplateVariable(t *testing.T) {
	a := NewLLM("needy", model.NewMock("m"), prompt.New("{subject} {body}"))

	_, err := core.Invoke(context.Background(), a, map[string]any{"subject": "x"}, nil)
	require.Error(t, err)

	var missing *prompt.MissingVariablesError
	assert.True(t, errors.As(err, &missing))
}

func TestLLM_HistoryStoreCarriesConversation(t *testing.T) {
	store := history.NewInMemoryStore()
	m := &captureModel{reply: "first answer"}

	a := NewLLM("chat", m, prompt.New("{input}"), func(o *LLMOptions) {
		o.HistoryStore = store
		o.SessionID = "s1"
	})

	_, err := core.Invoke(context.Background(), a, "first question", nil)
	require.NoError(t, err)

	msgs, err := store.Messages("s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first question", msgs[0].Content)
	assert.Equal(t, "first answer", msgs[1].Content)

	m.reply = "second answer"
	_, err = core.Invoke(context.Background(), a, "second question", nil)
	require.NoError(t, err)

	// The second request carries the recorded exchange before the prompt.
	require.Len(t, m.last.Messages, 3)
	assert.Equal(t, "first question", m.last.Messages[0].Content)
	assert.Equal(t, "first answer", m.last.Messages[1].Content)
	assert.Equal(t, "second question", m.last.Messages[2].Content)
}

func TestLLM_ClearHistoryDropsSession(t *testing.T) {
	store := history.NewInMemoryStore()
	require.NoError(t, store.Append("s1", core.NewUserMessage("old"), core.NewAssistantMessage("state")))

	m := &captureModel{reply: "fresh"}

	a := NewLLM("chat", m, prompt.New("{input}"), func(o *LLMOptions) {
		o.HistoryStore = store
		o.SessionID = "s1"
		o.Config = model.Config{ClearHistory: true}
	})

	_, err := core.Invoke(context.Background(), a, "new question", nil)
	require.NoError(t, err)

	require.Len(t, m.last.Messages, 1, "cleared session must not leak old messages")
	assert.Equal(t, "new question", m.last.Messages[0].Content)
}

func TestLLM_ModelCallLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevelInfo,
		Format: "json",
		Output: &buf,
	})
	rc := core.NewRunContext(core.WithLogger(logger))

	m := &captureModel{reply: "ok", usage: &model.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}}
	a := NewLLM("greeter", m, prompt.New("{input}"))

	_, err := core.Invoke(context.Background(), a, "hi", rc)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Model call completed")
	assert.Contains(t, out, `"model":"capture"`)
	assert.Contains(t, out, `"token_count":15`)
	assert.Contains(t, out, `"component":"action/greeter"`)
}

func TestLLM_Stream(t *testing.T) {
	m := model.NewMock("m")
	m.AddResponse("Say hi", "hello")

	a := NewLLM("greeter", m, prompt.New("Say {input}"))

	chunks, errCh := core.Stream(context.Background(), a, "hi", nil)

	var joined string
	var count int
	for c := range chunks {
		joined += c.(string)
		count++
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, "hello", joined)
	assert.Greater(t, count, 1, "streaming backend yields incremental chunks")
}

func TestLLM_StreamNonStreamingBackend(t *testing.T) {
	m := &captureModel{reply: "whole thing"}

	a := NewLLM("plain", m, prompt.New("{input}"))

	chunks, errCh := core.Stream(context.Background(), a, "x", nil)

	var got []any
	for c := range chunks {
		got = append(got, c)
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, []any{"whole thing"}, got)
	assert.False(t, m.last.Stream, "stream flag must stay off for non-streaming backends")
}
