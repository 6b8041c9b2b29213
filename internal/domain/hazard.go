package domain

import (
	_ "embed"
	"fmt"

	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
	"gopkg.in/yaml.v3"
)

// HazardType identifies one of the simulated ocean hazard categories.
type HazardType string

const (
	HazardOilSpill   HazardType = "oil_spill"
	HazardHAB        HazardType = "hab"
	HazardCyclone    HazardType = "cyclone"
	HazardMHW        HazardType = "mhw"
	HazardRipCurrent HazardType = "rip_current"
)

var hazardTypes = [...]HazardType{
	HazardOilSpill,
	HazardHAB,
	HazardCyclone,
	HazardMHW,
	HazardRipCurrent,
}

// HazardTypes returns every hazard type in display order.
func HazardTypes() []HazardType {
	out := make([]HazardType, len(hazardTypes))
	copy(out, hazardTypes[:])
	return out
}

// Valid reports whether h is a member of the closed hazard set.
func (h HazardType) Valid() bool {
	_, ok := hazardConfigs[h]
	return ok
}

// ParseHazardType validates a hazard type string.
func ParseHazardType(s string) (HazardType, error) {
	h := HazardType(s)
	if !h.Valid() {
		return "", fmt.Errorf("unknown hazard type %q", s)
	}
	return h, nil
}

// HazardConfig is the static display and cadence metadata for a hazard type.
type HazardConfig struct {
	Name                string               `json:"name" yaml:"name"`
	ShortName           string               `json:"short_name" yaml:"short_name"`
	Icon                string               `json:"icon" yaml:"icon"`
	Color               string               `json:"color" yaml:"color"`
	Description         string               `json:"description" yaml:"description"`
	ForecastHours       int                  `json:"forecast_hours" yaml:"forecast_hours"`
	UpdateIntervalHours int                  `json:"update_interval_hours" yaml:"update_interval_hours"`
	Region              geometry.BoundingBox `json:"region" yaml:"region"`
}

//go:embed hazards.yaml
var hazardsYAML []byte

// hazardConfigs is populated once at init and never written afterwards.
var hazardConfigs = mustLoadHazardConfigs(hazardsYAML)

// Config returns the static configuration for h. Unknown types yield the zero value.
func (h HazardType) Config() HazardConfig {
	return hazardConfigs[h]
}

func mustLoadHazardConfigs(data []byte) map[HazardType]HazardConfig {
	cfgs, err := loadHazardConfigs(data)
	if err != nil {
		panic(err)
	}
	return cfgs
}

func loadHazardConfigs(data []byte) (map[HazardType]HazardConfig, error) {
	var raw map[HazardType]HazardConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode hazard config: %w", err)
	}
	for _, h := range hazardTypes {
		cfg, ok := raw[h]
		if !ok {
			return nil, fmt.Errorf("hazard config: missing entry for %q", h)
		}
		if cfg.UpdateIntervalHours <= 0 {
			return nil, fmt.Errorf("hazard config %q: update_interval_hours must be positive", h)
		}
		if cfg.ForecastHours < 0 {
			return nil, fmt.Errorf("hazard config %q: forecast_hours must not be negative", h)
		}
	}
	if len(raw) != len(hazardTypes) {
		return nil, fmt.Errorf("hazard config: expected %d entries, got %d", len(hazardTypes), len(raw))
	}
	return raw, nil
}
