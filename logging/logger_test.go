package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level LogLevel) (*AgentLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf})
	return l, &buf
}

func TestAgentLogger_ContextualAttrs(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.WithComponent("pipeline").WithRun("run-42").WithContext("tenant", "acme").Info("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, `"component":"pipeline"`)
	assert.Contains(t, out, `"run_id":"run-42"`)
	assert.Contains(t, out, `"tenant":"acme"`)
	assert.Contains(t, out, `"k":"v"`)
	assert.Contains(t, out, `"msg":"hello"`)
}

func TestAgentLogger_WithMethodsDoNotMutateReceiver(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	derived := l.WithRun("run-1").WithContext("extra", true)
	require.NotNil(t, derived)

	l.Info("plain")
	assert.NotContains(t, buf.String(), "run_id")
	assert.NotContains(t, buf.String(), "extra")
}

func TestAgentLogger_LevelGating(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelWarn)

	l.Debug("too quiet")
	l.Info("still too quiet")
	assert.Empty(t, buf.String())

	l.Warn("loud enough")
	assert.Contains(t, buf.String(), "loud enough")
}

func TestAgentLogger_LogModelCall(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.LogModelCall("gpt-4o-mini", 128, 250*time.Millisecond, nil)
	out := buf.String()
	assert.Contains(t, out, "Model call completed")
	assert.Contains(t, out, `"model":"gpt-4o-mini"`)
	assert.Contains(t, out, `"token_count":128`)
	assert.Contains(t, out, `"success":true`)

	buf.Reset()
	l.LogModelCall("gpt-4o-mini", 0, time.Millisecond, errors.New("rate limited"))
	out = buf.String()
	assert.Contains(t, out, "Model call failed")
	assert.Contains(t, out, `"error":"rate limited"`)
	assert.Contains(t, out, `"success":false`)
}

func TestAgentLogger_LogActionRun(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.WithRun("run-7").LogActionRun("classify", time.Millisecond, nil)
	out := buf.String()
	assert.Contains(t, out, "Action run completed")
	assert.Contains(t, out, `"action":"classify"`)
	assert.Contains(t, out, `"run_id":"run-7"`)
}

func TestAgentLogger_LogPipelineRun(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.LogPipelineRun("pipeline(a -> b)", 2, time.Millisecond, nil)
	out := buf.String()
	assert.Contains(t, out, "Pipeline run completed")
	assert.Contains(t, out, `"step_count":2`)

	buf.Reset()
	l.LogPipelineRun("pipeline(a -> b)", 2, time.Millisecond, errors.New("boom"))
	assert.Contains(t, buf.String(), "Pipeline run failed")
}

func TestNewLogger_NilConfigUsesDefaults(t *testing.T) {
	l := NewLogger(nil)
	require.NotNil(t, l)
	assert.Equal(t, LogLevelInfo, l.level)
}
