package domain

import (
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
)

// TimedPolygon is one step of a hazard's forecast footprint.
type TimedPolygon struct {
	Time        time.Time     `json:"time"`
	Geometry    geometry.Ring `json:"geometry"`
	Probability float64       `json:"probability"`
}

// ConfidenceComponents holds the four named inputs to a confidence score.
// The same shape is used for their weights.
type ConfidenceComponents struct {
	DetectionCertainty float64 `json:"detection_certainty"`
	EnsembleSpread     float64 `json:"ensemble_spread"`
	DataCoverage       float64 `json:"data_coverage"`
	ModelSkill         float64 `json:"model_skill"`
}

// Sum returns the total of the four values.
func (c ConfidenceComponents) Sum() float64 {
	return c.DetectionCertainty + c.EnsembleSpread + c.DataCoverage + c.ModelSkill
}

// Dot returns the component-wise weighted sum of c under w.
func (c ConfidenceComponents) Dot(w ConfidenceComponents) float64 {
	return c.DetectionCertainty*w.DetectionCertainty +
		c.EnsembleSpread*w.EnsembleSpread +
		c.DataCoverage*w.DataCoverage +
		c.ModelSkill*w.ModelSkill
}

// ConfidenceScore is a weighted aggregate of the confidence components.
// Overall equals Components.Dot(Weights).
type ConfidenceScore struct {
	Overall    float64              `json:"overall"`
	Components ConfidenceComponents `json:"components"`
	Weights    ConfidenceComponents `json:"weights"`
}

// ModelRef names a model that contributed to a forecast and its content hash.
type ModelRef struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// Provenance is the lineage record attached to an event when it is created.
type Provenance struct {
	Models          []ModelRef `json:"models"`
	DataTiles       []string   `json:"data_tiles"`
	ProcessingSteps []string   `json:"processing_steps"`
	ConfigHash      string     `json:"config_hash"`
	RunID           string     `json:"run_id"`
	Timestamp       time.Time  `json:"timestamp"`
}

// ValidationMetrics are hindcast skill scores for the producing model.
// Exactly one of IoU, ROCAUC, and TrackRMSEKm is set for spill, bloom, and
// cyclone events respectively; other hazards carry only the common scores.
type ValidationMetrics struct {
	BrierScore  float64  `json:"brier_score"`
	POD         float64  `json:"pod"`
	FAR         float64  `json:"far"`
	HK          float64  `json:"hk"`
	IoU         *float64 `json:"iou,omitempty"`
	ROCAUC      *float64 `json:"roc_auc,omitempty"`
	TrackRMSEKm *float64 `json:"track_rmse_km,omitempty"`
}

// HazardEvent is a fully generated hazard with its forecast timeline.
type HazardEvent struct {
	ID               string             `json:"id"`
	HazardType       HazardType         `json:"hazard_type"`
	Name             string             `json:"name,omitempty"`
	DetectionTime    time.Time          `json:"detection_time"`
	Source           string             `json:"source"`
	Magnitude        float64            `json:"magnitude"`
	Unit             string             `json:"unit"`
	SeedPolygon      geometry.Ring      `json:"seed_polygon,omitempty"`
	ProbabilityTiles []string           `json:"probability_tiles"`
	Polygons         []TimedPolygon     `json:"polygons"`
	Confidence       ConfidenceScore    `json:"confidence"`
	Provenance       Provenance         `json:"provenance"`
	Validation       *ValidationMetrics `json:"validation,omitempty"`
	Severity         Severity           `json:"severity"`
	Certainty        Certainty          `json:"certainty"`
	Urgency          Urgency            `json:"urgency"`
	Headline         string             `json:"headline"`
	Description      string             `json:"description"`
	AreaDesc         string             `json:"area_desc"`
	AffectedRegions  []string           `json:"affected_regions"`
	ActiveSince      *time.Time         `json:"active_since,omitempty"`
	ExpiresAt        time.Time          `json:"expires_at"`
}
