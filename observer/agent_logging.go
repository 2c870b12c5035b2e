package observer

import (
	"context"
	"time"

	"github.com/pguso/email-agent-core/core"
	"github.com/pguso/email-agent-core/logging"
)

// AgentLogging logs run lifecycles through a logging.AgentLogger, tagging
// every entry with the run identifier and emitting the structured action run
// record on completion. Use Logging instead when only a plain logging.Logger
// is available.
type AgentLogging struct {
	logger *logging.AgentLogger
}

var _ core.Observer = (*AgentLogging)(nil)

// NewAgentLogging constructs an AgentLogging observer. A nil logger falls
// back to the default configuration.
func NewAgentLogging(logger *logging.AgentLogger) *AgentLogging {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}
	return &AgentLogging{logger: logger}
}

// OnStart implements core.Observer.
func (o *AgentLogging) OnStart(_ context.Context, run *core.Run) {
	o.logger.WithRun(run.ID).Debug("action started", "action", run.Action)
}

// OnSuccess implements core.Observer.
func (o *AgentLogging) OnSuccess(_ context.Context, run *core.Run, _ any) {
	o.logger.WithRun(run.ID).LogActionRun(run.Action, time.Since(run.StartedAt), nil)
}

// OnFailure implements core.Observer.
func (o *AgentLogging) OnFailure(_ context.Context, run *core.Run, err error) {
	o.logger.WithRun(run.ID).LogActionRun(run.Action, time.Since(run.StartedAt), err)
}
