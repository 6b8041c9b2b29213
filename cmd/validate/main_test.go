package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/forecast"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureTime = time.Date(2024, time.August, 20, 12, 0, 0, 0, time.UTC)

// buildFixture lays out a fixture the same way genmock does.
func buildFixture(seed uint64, count int) fixture {
	g := forecast.NewSeededGenerator(seed, clockwork.NewFakeClockAt(fixtureTime))
	fx := fixture{Seed: seed, GeneratedAt: fixtureTime}
	for _, h := range domain.HazardTypes() {
		fx.Events = append(fx.Events, g.GenerateEvents(h, count)...)
	}
	fx.Alerts = g.GenerateAlerts(fx.Events)
	for _, e := range fx.Events {
		switch e.HazardType {
		case domain.HazardOilSpill:
			fx.Particles = append(fx.Particles, *g.GenerateParticleEnsemble(e, 24))
		case domain.HazardCyclone:
			fx.Tracks = append(fx.Tracks, *g.GenerateCycloneTrack(e, 0))
		case domain.HazardHAB:
			fx.Blooms = append(fx.Blooms, *g.GenerateHABGrid(e))
		}
	}
	return fx
}

func writeFixture(t *testing.T, fx fixture) string {
	t.Helper()
	data, err := json.Marshal(fx)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRun_ValidFixturePasses(t *testing.T) {
	path := writeFixture(t, buildFixture(20240820, 3))
	assert.Equal(t, 0, run(path))
}

func TestRun_MissingOrCorruptFile(t *testing.T) {
	assert.Equal(t, 1, run(filepath.Join(t.TempDir(), "missing.json")))

	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.Equal(t, 1, run(path))
}

func TestPhases_DetectTampering(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(fx *fixture)
		check  func(fixture) *phase
	}{
		{
			name:   "probability out of range",
			tamper: func(fx *fixture) { fx.Events[0].Polygons[0].Probability = 1.5 },
			check:  checkEvents,
		},
		{
			name:   "duplicate event id",
			tamper: func(fx *fixture) { fx.Events[1].ID = fx.Events[0].ID },
			check:  checkEvents,
		},
		{
			name: "alert for unknown event",
			tamper: func(fx *fixture) {
				fx.Alerts[0].EventID = "no-such-event"
			},
			check: checkAlerts,
		},
		{
			name:   "alert dropped",
			tamper: func(fx *fixture) { fx.Alerts = fx.Alerts[1:] },
			check:  checkAlerts,
		},
		{
			name:   "particle set truncated",
			tamper: func(fx *fixture) { fx.Particles[0].Particles = fx.Particles[0].Particles[:10] },
			check:  checkArtifacts,
		},
		{
			name:   "track category inconsistent",
			tamper: func(fx *fixture) { fx.Tracks[0].Points[0].Category = 9 },
			check:  checkArtifacts,
		},
		{
			name:   "seed changed",
			tamper: func(fx *fixture) { fx.Seed++ },
			check:  checkReproducible,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := buildFixture(7, 3)
			require.NotEmpty(t, fx.Alerts)
			require.True(t, tt.check(fx).passed(), "untampered fixture should pass")

			tt.tamper(&fx)
			assert.False(t, tt.check(fx).passed())
		})
	}
}
