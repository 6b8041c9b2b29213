package domain

import (
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
)

// Particle is a Lagrangian tracer used to visualize spill drift. Particles are
// recomputed on every request and never stored.
type Particle struct {
	ID             int               `json:"id"`
	Position       geometry.Position `json:"position"`
	Time           time.Time         `json:"time"`
	AgeHours       float64           `json:"age_hours"`
	Probability    float64           `json:"probability"`
	EnsembleMember int               `json:"ensemble_member"`
}

// ParticleEnsemble is a full tracer set for one event at one timestep.
type ParticleEnsemble struct {
	EventID   string     `json:"event_id"`
	Timestep  int        `json:"timestep"`
	Time      time.Time  `json:"time"`
	Members   int        `json:"members"`
	Particles []Particle `json:"particles"`
}

// TrackPoint is one forecast fix of a cyclone track.
type TrackPoint struct {
	Time                   time.Time         `json:"time"`
	Hour                   int               `json:"hour"`
	Position               geometry.Position `json:"position"`
	IntensityMS            float64           `json:"intensity_ms"`
	Category               int               `json:"category"`
	PressureHPa            float64           `json:"pressure_hpa"`
	RMaxKm                 float64           `json:"rmax_km"`
	PositionUncertaintyKm  float64           `json:"position_uncertainty_km"`
	IntensityUncertaintyMS float64           `json:"intensity_uncertainty_ms"`
}

// SurgeForecast is the optional coastal storm surge outlook of a cyclone.
type SurgeForecast struct {
	MaxSurgeM  float64       `json:"max_surge_m"`
	ImpactArea geometry.Ring `json:"impact_area"`
}

// CycloneTrack is a forecast track with its uncertainty cone.
type CycloneTrack struct {
	ID                 string         `json:"id"`
	EventID            string         `json:"event_id"`
	Name               string         `json:"name"`
	Designation        string         `json:"designation"`
	Basin              string         `json:"basin"`
	Points             []TrackPoint   `json:"points"`
	CurrentIndex       int            `json:"current_index"`
	Cone               geometry.Ring  `json:"cone"`
	Surge              *SurgeForecast `json:"surge,omitempty"`
	PotentialIntensity float64        `json:"potential_intensity"`
}

// WindFieldPoint is one sample of a cyclone's near-surface wind field.
type WindFieldPoint struct {
	Position     geometry.Position `json:"position"`
	DistanceKm   float64           `json:"distance_km"`
	SpeedMS      float64           `json:"speed_ms"`
	U            float64           `json:"u"`
	V            float64           `json:"v"`
	DirectionDeg float64           `json:"direction_deg"`
}

// HABCell is one grid cell of a bloom probability surface.
type HABCell struct {
	Position       geometry.Position  `json:"position"`
	Probability    float64            `json:"probability"`
	Attribution    map[string]float64 `json:"attribution"`
	DominantFactor string             `json:"dominant_factor"`
}

// FeatureImportance is the mean absolute contribution of a feature across a grid.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// HABForecast is a gridded bloom probability surface with per-cell attribution.
type HABForecast struct {
	EventID           string               `json:"event_id"`
	Cells             []HABCell            `json:"cells"`
	ResolutionDeg     float64              `json:"resolution_deg"`
	Bounds            geometry.BoundingBox `json:"bounds"`
	FeatureImportance []FeatureImportance  `json:"feature_importance"`
}
