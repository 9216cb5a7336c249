package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()
	m.Converted("ignition delay measurement", 3, 10*time.Millisecond)
	m.Converted("ignition delay measurement", 2, 20*time.Millisecond)
	m.Failed("", "xml", time.Millisecond)
	m.Failed("jet stirred reactor measurement", "species", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.conversions.WithLabelValues("ignition delay measurement", "converted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conversions.WithLabelValues("unknown", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("species")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.simulations))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.Converted("outlet concentration measurement", 1, time.Millisecond)

	path := filepath.Join(t.TempDir(), "textfile", "respecthconv.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `respecthconv_conversions_total{experiment_type="outlet concentration measurement",status="converted"} 1`)
	assert.Contains(t, string(data), "respecthconv_simulations_total 1")
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.Converted("x", 1, time.Second)
	m.Failed("x", "io", time.Second)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("/nonexistent/path"))
}
