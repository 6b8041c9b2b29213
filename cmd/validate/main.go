// Command validate checks a forecast fixture written by genmock: every event
// passes the invariant checks, alerts match the events they were derived from,
// derived artifacts are consistent, and the fixture regenerates identically
// from its recorded seed.
//
// Usage:
//
//	go run ./cmd/validate -fixture data/mock/ocean_hazards_240820.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/forecast"
	"github.com/jonboulle/clockwork"
)

// fixture mirrors genmock's output layout.
type fixture struct {
	Seed        uint64                    `json:"seed"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Events      []domain.HazardEvent      `json:"events"`
	Alerts      []domain.CAPAlert         `json:"alerts"`
	Particles   []domain.ParticleEnsemble `json:"particles"`
	Tracks      []domain.CycloneTrack     `json:"tracks"`
	Blooms      []domain.HABForecast      `json:"blooms"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("fixture", "", "path to genmock JSON fixture")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*path))
}

func run(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read fixture: %v\n", err)
		return 1
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		fmt.Fprintf(os.Stderr, "decode fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		checkEvents(fx),
		checkAlerts(fx),
		checkArtifacts(fx),
		checkReproducible(fx),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s (%d errors)\n", p.name, len(p.errors))
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func checkEvents(fx fixture) *phase {
	p := &phase{name: "event invariants"}
	if len(fx.Events) == 0 {
		p.errorf("fixture has no events")
	}
	ids := map[string]bool{}
	for _, e := range fx.Events {
		if ids[e.ID] {
			p.errorf("duplicate event id %s", e.ID)
		}
		ids[e.ID] = true
		if err := domain.Validate(e); err != nil {
			p.errorf("%s: %v", e.ID, err)
		}
	}
	return p
}

func checkAlerts(fx fixture) *phase {
	p := &phase{name: "alert derivation"}
	byID := map[string]domain.HazardEvent{}
	for _, e := range fx.Events {
		byID[e.ID] = e
	}
	want := forecast.ToAlerts(fx.Events)
	if len(want) != len(fx.Alerts) {
		p.errorf("alert count %d, want %d", len(fx.Alerts), len(want))
	}
	for _, a := range fx.Alerts {
		e, ok := byID[a.EventID]
		switch {
		case !ok:
			p.errorf("%s: references unknown event %s", a.ID, a.EventID)
		case e.Severity == domain.SeverityMinor:
			p.errorf("%s: alert issued for minor event", a.ID)
		case a.Severity != e.Severity:
			p.errorf("%s: severity %s, event has %s", a.ID, a.Severity, e.Severity)
		case a.Instruction == "":
			p.errorf("%s: missing instruction", a.ID)
		}
	}
	return p
}

func checkArtifacts(fx fixture) *phase {
	p := &phase{name: "derived artifacts"}
	for _, ens := range fx.Particles {
		if len(ens.Particles) != 500 {
			p.errorf("particles %s: %d particles, want 500", ens.EventID, len(ens.Particles))
		}
		for _, pt := range ens.Particles {
			if pt.EnsembleMember < 0 || pt.EnsembleMember >= ens.Members {
				p.errorf("particles %s: member %d outside [0,%d)", ens.EventID, pt.EnsembleMember, ens.Members)
				break
			}
		}
	}
	for _, tr := range fx.Tracks {
		if len(tr.Points) != 21 {
			p.errorf("track %s: %d points, want 21", tr.EventID, len(tr.Points))
		}
		for _, pt := range tr.Points {
			if pt.Category != forecast.Category(pt.IntensityMS) {
				p.errorf("track %s hour %d: category %d for %.2f m/s", tr.EventID, pt.Hour, pt.Category, pt.IntensityMS)
			}
		}
	}
	for _, b := range fx.Blooms {
		for _, c := range b.Cells {
			if !b.Bounds.Contains(c.Position) {
				p.errorf("bloom %s: cell %v outside bounds", b.EventID, c.Position)
				break
			}
		}
	}
	return p
}

// checkReproducible regenerates the events from the recorded seed and compares
// them with the fixture after a JSON round trip.
func checkReproducible(fx fixture) *phase {
	p := &phase{name: "seed reproducibility"}
	if len(fx.Events) == 0 {
		return p
	}
	perHazard := len(forecast.EventsOfType(fx.Events, domain.HazardTypes()[0]))
	g := forecast.NewSeededGenerator(fx.Seed, clockwork.NewFakeClockAt(fx.GeneratedAt))

	var regenerated []domain.HazardEvent
	for _, h := range domain.HazardTypes() {
		regenerated = append(regenerated, g.GenerateEvents(h, perHazard)...)
	}
	want, err := roundTrip(regenerated)
	if err != nil {
		p.errorf("encode regenerated events: %v", err)
		return p
	}
	got, err := roundTrip(fx.Events)
	if err != nil {
		p.errorf("encode fixture events: %v", err)
		return p
	}
	if !reflect.DeepEqual(want, got) {
		p.errorf("events regenerated from seed %d differ from fixture", fx.Seed)
	}
	return p
}

func roundTrip(events []domain.HazardEvent) (any, error) {
	data, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}
	var out any
	err = json.Unmarshal(data, &out)
	return out, err
}
