// Command genmock generates a reproducible forecast fixture: hazard events for
// every hazard type, the CAP alerts derived from them, and the per-hazard
// artifacts (spill particle ensembles, cyclone tracks, bloom grids). The same
// seed and reference time always produce byte-identical output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -seed 20240820 \
//	  -count 5 \
//	  -out data/mock/ocean_hazards_240820.json \
//	  -parquet data/mock/ocean_hazards_240820.parquet
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/adapter/parquet"
	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/forecast"
	"github.com/jonboulle/clockwork"
)

// referenceTime pins detection and provenance timestamps.
var referenceTime = time.Date(2024, time.August, 20, 12, 0, 0, 0, time.UTC)

// Fixture is the on-disk layout shared with cmd/validate.
type Fixture struct {
	Seed        uint64                    `json:"seed"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Events      []domain.HazardEvent      `json:"events"`
	Alerts      []domain.CAPAlert         `json:"alerts"`
	Particles   []domain.ParticleEnsemble `json:"particles"`
	Tracks      []domain.CycloneTrack     `json:"tracks"`
	Blooms      []domain.HABForecast      `json:"blooms"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seed := flag.Uint64("seed", 20240820, "random seed")
	count := flag.Int("count", 5, "events per hazard type")
	out := flag.String("out", "", "output path for the JSON fixture")
	parquetOut := flag.String("parquet", "", "optional output path for a Parquet table of forecast polygons")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *count < 1 {
		return fmt.Errorf("-count must be positive, got %d", *count)
	}

	fx := build(*seed, *count)

	if err := writeJSON(*out, fx); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	if *parquetOut != "" {
		if err := writeParquet(*parquetOut, fx.Events); err != nil {
			return fmt.Errorf("writing parquet: %w", err)
		}
		log.Printf("wrote parquet: %s", *parquetOut)
	}

	printStats(fx)
	return nil
}

func build(seed uint64, count int) Fixture {
	clock := clockwork.NewFakeClockAt(referenceTime)
	g := forecast.NewSeededGenerator(seed, clock)

	fx := Fixture{Seed: seed, GeneratedAt: referenceTime}
	for _, h := range domain.HazardTypes() {
		events := g.GenerateEvents(h, count)
		log.Printf("%s: %d events", h, len(events))
		fx.Events = append(fx.Events, events...)
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

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func writeParquet(path string, events []domain.HazardEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := parquet.WriteEvents(f, events); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printStats(fx Fixture) {
	severity := map[string]int{}
	for _, e := range fx.Events {
		severity[string(e.Severity)]++
	}
	keys := make([]string, 0, len(severity))
	for k := range severity {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("events: %d  alerts: %d  particle sets: %d  tracks: %d  bloom grids: %d\n",
		len(fx.Events), len(fx.Alerts), len(fx.Particles), len(fx.Tracks), len(fx.Blooms))
	for _, k := range keys {
		fmt.Printf("  %-10s %d\n", k, severity[k])
	}
}
