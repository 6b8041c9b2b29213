// Package parquet exports generated forecasts as a flat Parquet table for
// offline analysis: one row per forecast polygon of every event.
package parquet

import (
	"fmt"
	"io"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
	pq "github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// PolygonRow is one forecast step of one event.
type PolygonRow struct {
	EventID     string  `parquet:"name=event_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	HazardType  string  `parquet:"name=hazard_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	Severity    string  `parquet:"name=severity, type=BYTE_ARRAY, convertedtype=UTF8"`
	Step        int32   `parquet:"name=step, type=INT32"`
	Hour        int32   `parquet:"name=hour, type=INT32"`
	ValidTime   int64   `parquet:"name=valid_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Probability float64 `parquet:"name=probability, type=DOUBLE"`
	CentroidLon float64 `parquet:"name=centroid_lon, type=DOUBLE"`
	CentroidLat float64 `parquet:"name=centroid_lat, type=DOUBLE"`
	AreaKm2     float64 `parquet:"name=area_km2, type=DOUBLE"`
	Magnitude   float64 `parquet:"name=magnitude, type=DOUBLE"`
	Unit        string  `parquet:"name=unit, type=BYTE_ARRAY, convertedtype=UTF8"`
	Confidence  float64 `parquet:"name=confidence, type=DOUBLE"`
	RunID       string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Rows flattens events into one row per forecast polygon, preserving event and
// timeline order.
func Rows(events []domain.HazardEvent) []PolygonRow {
	n := 0
	for i := range events {
		n += len(events[i].Polygons)
	}
	rows := make([]PolygonRow, 0, n)
	for i := range events {
		e := &events[i]
		for step, p := range e.Polygons {
			c := geometry.Centroid(p.Geometry)
			rows = append(rows, PolygonRow{
				EventID:     e.ID,
				HazardType:  string(e.HazardType),
				Severity:    string(e.Severity),
				Step:        int32(step),
				Hour:        int32(p.Time.Sub(e.DetectionTime).Hours()),
				ValidTime:   p.Time.UnixMilli(),
				Probability: p.Probability,
				CentroidLon: c.Lon(),
				CentroidLat: c.Lat(),
				AreaKm2:     geometry.Area(p.Geometry),
				Magnitude:   e.Magnitude,
				Unit:        e.Unit,
				Confidence:  e.Confidence.Overall,
				RunID:       e.Provenance.RunID,
			})
		}
	}
	return rows
}

// WriteEvents writes the flattened rows of events to w as a Snappy-compressed
// Parquet file.
func WriteEvents(w io.Writer, events []domain.HazardEvent) error {
	pw, err := writer.NewParquetWriterFromWriter(w, new(PolygonRow), 1)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = pq.CompressionCodec_SNAPPY

	for i, row := range Rows(events) {
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	return nil
}
