package observer

import (
	"context"
	"time"

	"github.com/pguso/email-agent-core/core"
	"github.com/pguso/email-agent-core/logging"
)

// Logging logs run start, success and failure through a logging.Logger.
type Logging struct {
	logger logging.Logger
}

var _ core.Observer = (*Logging)(nil)

// NewLogging constructs a Logging observer. A nil logger disables output.
func NewLogging(logger logging.Logger) *Logging {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Logging{logger: logger}
}

// OnStart implements core.Observer.
func (o *Logging) OnStart(_ context.Context, run *core.Run) {
	o.logger.Debug("action started", "run_id", run.ID, "action", run.Action)
}

// OnSuccess implements core.Observer.
func (o *Logging) OnSuccess(_ context.Context, run *core.Run, _ any) {
	o.logger.Info("action completed", "run_id", run.ID, "action", run.Action, "duration", time.Since(run.StartedAt))
}

// OnFailure implements core.Observer.
func (o *Logging) OnFailure(_ context.Context, run *core.Run, err error) {
	o.logger.Error("action failed", "run_id", run.ID, "action", run.Action, "duration", time.Since(run.StartedAt), "error", err)
}
