package observer

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pguso/email-agent-core/core"
)

// Metrics records per-action run counts, failures and durations as
// Prometheus metrics.
type Metrics struct {
	runs     *prometheus.CounterVec
	inflight *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

var _ core.Observer = (*Metrics)(nil)

// NewMetrics creates a Metrics observer and registers its collectors with
// reg. Pass prometheus.DefaultRegisterer for the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "action_runs_total",
				Help: "Total number of action invocations by outcome.",
			},
			[]string{"action", "outcome"},
		),
		inflight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "action_runs_inflight",
				Help: "Number of action invocations currently executing.",
			},
			[]string{"action"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "action_run_duration_seconds",
				Help:    "Action invocation latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
}

// OnStart implements core.Observer.
func (m *Metrics) OnStart(_ context.Context, run *core.Run) {
	m.inflight.WithLabelValues(run.Action).Inc()
}

// OnSuccess implements core.Observer.
func (m *Metrics) OnSuccess(_ context.Context, run *core.Run, _ any) {
	m.inflight.WithLabelValues(run.Action).Dec()
	m.runs.WithLabelValues(run.Action, "success").Inc()
	m.duration.WithLabelValues(run.Action).Observe(time.Since(run.StartedAt).Seconds())
}

// OnFailure implements core.Observer.
func (m *Metrics) OnFailure(_ context.Context, run *core.Run, _ error) {
	m.inflight.WithLabelValues(run.Action).Dec()
	m.runs.WithLabelValues(run.Action, "failure").Inc()
	m.duration.WithLabelValues(run.Action).Observe(time.Since(run.StartedAt).Seconds())
}
