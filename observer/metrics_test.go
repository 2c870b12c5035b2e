package observer

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguso/email-agent-core/core"
)

type staticAction struct {
	name string
	out  any
	err  error
}

func (a *staticAction) Name() string { return a.name }

func (a *staticAction) Run(context.Context, any, *core.RunContext) (any, error) {
	return a.out, a.err
}

func TestMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	rc := core.NewRunContext(core.WithObservers(m))

	ok := &staticAction{name: "ok", out: "done"}
	bad := &staticAction{name: "bad", err: errors.New("boom")}

	for i := 0; i < 3; i++ {
		_, err := core.Invoke(context.Background(), ok, nil, rc)
		require.NoError(t, err)
	}
	_, err := core.Invoke(context.Background(), bad, nil, rc)
	require.Error(t, err)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.runs.WithLabelValues("ok", "success")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.runs.WithLabelValues("ok", "failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("bad", "failure")))
}

func TestMetrics_InflightReturnsToZero(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	rc := core.NewRunContext(core.WithObservers(m))

	a := &staticAction{name: "a", out: 1}
	_, err := core.Invoke(context.Background(), a, nil, rc)
	require.NoError(t, err)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.inflight.WithLabelValues("a")))
}

func TestMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	rc := core.NewRunContext(core.WithObservers(m))

	_, err := core.Invoke(context.Background(), &staticAction{name: "a", out: 1}, nil, rc)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["action_runs_total"])
	assert.True(t, names["action_runs_inflight"])
	assert.True(t, names["action_run_duration_seconds"])
}
