package parquet

import (
	"bytes"
	"testing"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/forecast"
	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)

func testEvents() []domain.HazardEvent {
	g := forecast.NewSeededGenerator(11, clockwork.NewFakeClockAt(testNow))
	events := g.GenerateEvents(domain.HazardOilSpill, 2)
	return append(events, g.GenerateEvents(domain.HazardMHW, 1)...)
}

func TestRows_OnePerForecastPolygon(t *testing.T) {
	events := testEvents()
	rows := Rows(events)

	// 25 spill steps each plus the single heatwave snapshot.
	require.Len(t, rows, 25+25+1)

	spill := events[0]
	r := rows[4]
	assert.Equal(t, spill.ID, r.EventID)
	assert.Equal(t, "oil_spill", r.HazardType)
	assert.Equal(t, int32(4), r.Step)
	assert.Equal(t, int32(12), r.Hour)
	assert.Equal(t, spill.Polygons[4].Time.UnixMilli(), r.ValidTime)
	assert.Equal(t, spill.Polygons[4].Probability, r.Probability)
	assert.Equal(t, spill.Confidence.Overall, r.Confidence)
	assert.Equal(t, spill.Provenance.RunID, r.RunID)

	c := geometry.Centroid(spill.Polygons[4].Geometry)
	assert.InDelta(t, c.Lon(), r.CentroidLon, 1e-12)
	assert.InDelta(t, c.Lat(), r.CentroidLat, 1e-12)
	assert.Positive(t, r.AreaKm2)

	last := rows[len(rows)-1]
	assert.Equal(t, "mhw", last.HazardType)
	assert.Equal(t, int32(0), last.Hour)
}

func TestRows_Empty(t *testing.T) {
	assert.Empty(t, Rows(nil))
}

func TestWriteEvents_ProducesParquetFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEvents(&buf, testEvents()))

	data := buf.Bytes()
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("PAR1"), data[:4], "leading magic")
	assert.Equal(t, []byte("PAR1"), data[len(data)-4:], "trailing magic")
}
