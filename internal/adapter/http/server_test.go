package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/ocean-hazard-engine/internal/adapter/http"
	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

var testNow = time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestServer(readyErr error) (*httpadapter.Server, *observability.Metrics) {
	srv, metrics, _ := newTestServerWithClock(readyErr)
	return srv, metrics
}

func newTestServerWithClock(readyErr error) (*httpadapter.Server, *observability.Metrics, *clockwork.FakeClock) {
	metrics := observability.NewMetricsForTesting()
	clock := clockwork.NewFakeClockAt(testNow)
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, clock, metrics, slog.Default()), metrics, clock
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(fmt.Errorf("not ready yet"))
	rec := get(t, srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHazardsListsAllTypes(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/v1/hazards")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []struct {
		Type          domain.HazardType `json:"type"`
		Name          string            `json:"name"`
		ForecastHours int               `json:"forecast_hours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 5)
	assert.Equal(t, domain.HazardOilSpill, body[0].Type)
	assert.Equal(t, "Oil Spill", body[0].Name)
	assert.Equal(t, 72, body[0].ForecastHours)
}

func TestEvents_SeededResponsesRepeat(t *testing.T) {
	srv, metrics := newTestServer(nil)

	first := get(t, srv, "/v1/hazards/hab/events?count=3&seed=17")
	second := get(t, srv, "/v1/hazards/hab/events?count=3&seed=17")
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var events []domain.HazardEvent
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &events))
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, domain.HazardHAB, e.HazardType)
		assert.NoError(t, domain.Validate(e))
	}

	assert.InDelta(t, 2.0,
		testutil.ToFloat64(metrics.APIRequests.WithLabelValues("GET /v1/hazards/{type}/events", "200")), 1e-9)
}

func TestEvents_SeededResponsesCached(t *testing.T) {
	srv, metrics, clock := newTestServerWithClock(nil)
	cache := func(result string) float64 {
		return testutil.ToFloat64(metrics.APICache.WithLabelValues(result))
	}

	first := get(t, srv, "/v1/hazards/cyclone/events?count=2&seed=9")
	second := get(t, srv, "/v1/hazards/cyclone/events?count=2&seed=9")
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.InDelta(t, 1.0, cache("miss"), 1e-9)
	assert.InDelta(t, 1.0, cache("hit"), 1e-9)

	// Different count is a different key.
	get(t, srv, "/v1/hazards/cyclone/events?count=3&seed=9")
	assert.InDelta(t, 2.0, cache("miss"), 1e-9)

	// Entries expire and are regenerated at the new clock time.
	clock.Advance(2 * time.Minute)
	third := get(t, srv, "/v1/hazards/cyclone/events?count=2&seed=9")
	assert.InDelta(t, 3.0, cache("miss"), 1e-9)
	assert.NotEqual(t, first.Body.String(), third.Body.String())
}

func TestEvents_UnseededNotCached(t *testing.T) {
	srv, metrics := newTestServer(nil)
	get(t, srv, "/v1/hazards/hab/events")
	get(t, srv, "/v1/hazards/hab/events")

	assert.Zero(t, testutil.ToFloat64(metrics.APICache.WithLabelValues("hit")))
	assert.Zero(t, testutil.ToFloat64(metrics.APICache.WithLabelValues("miss")))
}

func TestEvents_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		target string
		code   int
	}{
		{"unknown hazard", "/v1/hazards/tsunami/events", http.StatusNotFound},
		{"count not a number", "/v1/hazards/hab/events?count=many", http.StatusBadRequest},
		{"count zero", "/v1/hazards/hab/events?count=0", http.StatusBadRequest},
		{"count too large", "/v1/hazards/hab/events?count=1000", http.StatusBadRequest},
		{"negative seed", "/v1/hazards/hab/events?seed=-1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(nil)
			rec := get(t, srv, tt.target)
			assert.Equal(t, tt.code, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestAlerts_OmitMinor(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/v1/hazards/rip_current/alerts?count=20&seed=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var alerts []domain.CAPAlert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	for _, a := range alerts {
		assert.NotEqual(t, domain.SeverityMinor, a.Severity)
		assert.Equal(t, domain.HazardRipCurrent, a.HazardType)
		assert.NotEmpty(t, a.Instruction)
	}
}

func TestForecast_AttachesHazardArtifacts(t *testing.T) {
	tests := []struct {
		hazard    string
		particles bool
		track     bool
		bloom     bool
	}{
		{"oil_spill", true, false, false},
		{"cyclone", false, true, false},
		{"hab", false, false, true},
		{"mhw", false, false, false},
		{"rip_current", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.hazard, func(t *testing.T) {
			srv, _ := newTestServer(nil)
			rec := get(t, srv, "/v1/hazards/"+tt.hazard+"/forecast?seed=5&hour=12")
			require.Equal(t, http.StatusOK, rec.Code)

			var body map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "event")
			assert.Contains(t, body, "active_polygon")
			_, hasParticles := body["particles"]
			_, hasTrack := body["track"]
			_, hasBloom := body["bloom"]
			assert.Equal(t, tt.particles, hasParticles)
			assert.Equal(t, tt.track, hasTrack)
			assert.Equal(t, tt.bloom, hasBloom)
		})
	}
}

func TestForecast_HourCursorClamped(t *testing.T) {
	tests := []struct {
		name     string
		hour     string
		wantHour int
		last     bool
	}{
		{"beyond horizon", "3000000", 72, true},
		{"max int", "9223372036854775807", 72, true},
		{"negative", "-5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(nil)
			rec := get(t, srv, "/v1/hazards/oil_spill/forecast?seed=5&hour="+tt.hour)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Event     domain.HazardEvent      `json:"event"`
				Hour      int                     `json:"hour"`
				Active    domain.TimedPolygon     `json:"active_polygon"`
				Particles domain.ParticleEnsemble `json:"particles"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotEmpty(t, body.Event.Polygons)
			assert.Equal(t, tt.wantHour, body.Hour)
			assert.Equal(t, tt.wantHour, body.Particles.Timestep)

			want := body.Event.Polygons[0]
			if tt.last {
				want = body.Event.Polygons[len(body.Event.Polygons)-1]
			}
			assert.True(t, want.Time.Equal(body.Active.Time), "active %s, want %s", body.Active.Time, want.Time)
		})
	}
}

func TestForecast_IgnoresCount(t *testing.T) {
	srv, metrics := newTestServer(nil)

	first := get(t, srv, "/v1/hazards/hab/forecast?seed=8&count=2")
	second := get(t, srv, "/v1/hazards/hab/forecast?seed=8&count=abc")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.APICache.WithLabelValues("hit")), 1e-9,
		"requests differing only in count share a cache entry")
}

func TestWindField(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/v1/windfield?lon=-65&lat=20&max_wind=55&r_max=40&half_width=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var points []domain.WindFieldPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, 5*5-1)
}

func TestWindField_BadInput(t *testing.T) {
	for _, target := range []string{
		"/v1/windfield",
		"/v1/windfield?lon=-65",
		"/v1/windfield?lon=abc&lat=20",
		"/v1/windfield?lon=-65&lat=95",
		"/v1/windfield?lon=-65&lat=20&r_max=0",
		"/v1/windfield?lon=-65&lat=20&half_width=50",
		"/v1/windfield?lon=NaN&lat=20",
	} {
		t.Run(target, func(t *testing.T) {
			srv, _ := newTestServer(nil)
			assert.Equal(t, http.StatusBadRequest, get(t, srv, target).Code)
		})
	}
}
