package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpCollector(t *testing.T) {
	c := NewNoOpCollector()

	// Nothing to assert beyond not panicking and the timer measuring time.
	c.IncrementCounter("seed_inserts_total", "worker", "1")
	c.RecordGauge("seed_workers", 4)
	c.RecordHistogram("seed_duration_seconds", 0.5)

	timer := c.StartTimer("seed")
	time.Sleep(time.Millisecond)
	assert.Greater(t, timer.Stop(), 0.0)
}

func TestPrometheusCollector_Counters(t *testing.T) {
	c := NewPrometheusCollector()

	c.IncrementCounter("seed_inserts_total", "worker", "1")
	c.IncrementCounter("seed_inserts_total", "worker", "1")
	c.IncrementCounter("seed_inserts_total", "worker", "2")

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "seed_inserts_total", families[0].GetName())

	var total float64
	for _, m := range families[0].GetMetric() {
		total += m.GetCounter().GetValue()
	}
	assert.Equal(t, 3.0, total)
}

func TestPrometheusCollector_GaugeAndHistogram(t *testing.T) {
	c := NewPrometheusCollector()

	c.RecordGauge("seed_workers", 4)
	c.RecordHistogram("seed_insert_seconds", 0.01)

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}

func TestPrometheusCollector_TimerRecordsHistogram(t *testing.T) {
	c := NewPrometheusCollector()

	timer := c.StartTimer("seed")
	time.Sleep(time.Millisecond)
	seconds := timer.Stop()
	assert.Greater(t, seconds, 0.0)

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "seed_duration_seconds", families[0].GetName())
}

func TestParseLabelPairs(t *testing.T) {
	names, values := parseLabelPairs([]string{"worker", "1", "outcome", "ok"})
	assert.Equal(t, []string{"worker", "outcome"}, names)
	assert.Equal(t, []string{"1", "ok"}, values)

	// An odd trailing label is dropped rather than panicking.
	names, values = parseLabelPairs([]string{"worker", "1", "dangling"})
	assert.Equal(t, []string{"worker"}, names)
	assert.Equal(t, []string{"1"}, values)
}
