package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncCounter("auth_success", map[string]string{"network": "testnet"})
	r.IncCounter("auth_success", map[string]string{"network": "testnet"})
	r.IncCounter("auth_failure", map[string]string{"network": "localnet"})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.counters.WithLabelValues("auth_success", "testnet")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.counters.WithLabelValues("auth_failure", "localnet")))
}

func TestPrometheusRecorderLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveLatency("read", 150*time.Millisecond, map[string]string{"network": "testnet"})

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "urwacli_latency_seconds" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, uint64(1), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found)
}

func TestOrNoop(t *testing.T) {
	assert.IsType(t, NoopRecorder{}, OrNoop(nil))
	assert.NotPanics(t, func() {
		NoopRecorder{}.IncCounter("x", nil)
		NoopRecorder{}.ObserveLatency("x", time.Second, nil)
	})
}
