package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Generations.WithLabelValues("success").Inc()
	m.Generations.WithLabelValues("success").Inc()
	m.Refunds.WithLabelValues("ok").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Generations.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Refunds.WithLabelValues("ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewNopDoesNotPanicOnReuse(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
