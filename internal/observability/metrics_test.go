package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.EventsGenerated.WithLabelValues("hab").Add(3)
	a.PublishErrors.Inc()

	assert.InDelta(t, 3.0, testutil.ToFloat64(a.EventsGenerated.WithLabelValues("hab")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(a.PublishErrors), 1e-9)
	assert.Zero(t, testutil.ToFloat64(b.EventsGenerated.WithLabelValues("hab")))
	assert.Zero(t, testutil.ToFloat64(b.PublishErrors))
}

func TestMetrics_Names(t *testing.T) {
	m := NewMetricsForTesting()
	m.AlertsGenerated.WithLabelValues("cyclone", "extreme").Inc()

	assert.Equal(t, 1, testutil.CollectAndCount(m.AlertsGenerated, "ocean_hazard_alerts_generated_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PipelineRunning, "ocean_hazard_pipeline_running"))

	m.APICache.WithLabelValues("hit").Inc()
	m.APICache.WithLabelValues("miss").Inc()
	assert.Equal(t, 2, testutil.CollectAndCount(m.APICache, "ocean_hazard_api_cache_total"))
}
