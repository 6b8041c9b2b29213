package forecast

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
)

// baselineModels run for every hazard.
var baselineModels = []string{"detection-cnn", "ensemble-blender"}

var hazardModels = map[domain.HazardType][]string{
	domain.HazardOilSpill: {"openoil-drift", "sar-slick-segmenter"},
	domain.HazardHAB:      {"hab-xgboost", "chl-anomaly-detector"},
	domain.HazardCyclone:  {"vortex-track-ensemble", "intensity-lstm"},
}

var processingSteps = map[domain.HazardType][]string{
	domain.HazardOilSpill: {
		"ingest_sar", "calibrate_sigma0", "segment_slick", "estimate_thickness",
		"drift_ensemble", "rasterize_probability", "validate_hindcast",
	},
	domain.HazardHAB: {
		"ingest_ocean_color", "atmospheric_correction", "chl_anomaly",
		"assemble_features", "xgboost_inference", "shap_attribution", "rasterize_probability",
	},
	domain.HazardCyclone: {
		"ingest_advisory", "vortex_initialize", "track_ensemble", "intensity_ensemble",
		"build_cone", "wind_field", "surge_screening",
	},
	domain.HazardMHW: {
		"ingest_sst", "climatology_baseline", "anomaly_threshold", "persistence_filter", "polygonize",
	},
	domain.HazardRipCurrent: {
		"ingest_wave_buoy", "beach_profile_lookup", "rip_index", "polygonize",
	},
}

var tilePrefixes = map[domain.HazardType]string{
	domain.HazardOilSpill:   "S1A_IW_GRDH",
	domain.HazardHAB:        "S3A_OL_2_WFR",
	domain.HazardCyclone:    "GOES16_ABI_L2",
	domain.HazardMHW:        "OISST_V2_1",
	domain.HazardRipCurrent: "NDBC_SPEC",
}

// ProcessingSteps returns the ordered processing step names for h.
func ProcessingSteps(h domain.HazardType) []string {
	steps := processingSteps[h]
	out := make([]string, len(steps))
	copy(out, steps)
	return out
}

// GenerateProvenance builds the lineage record for a new event of type h.
func (g *Generator) GenerateProvenance(h domain.HazardType) domain.Provenance {
	names := append(append([]string{}, baselineModels...), hazardModels[h]...)
	models := make([]domain.ModelRef, len(names))
	for i, name := range names {
		models[i] = domain.ModelRef{Name: name, Hash: g.hexString(12)}
	}

	tiles := make([]string, g.intRange(3, 6))
	for i := range tiles {
		tiles[i] = fmt.Sprintf("%s_%05d", tilePrefixes[h], g.rng.IntN(100000))
	}

	return domain.Provenance{
		Models:          models,
		DataTiles:       tiles,
		ProcessingSteps: ProcessingSteps(h),
		ConfigHash:      configHash(h, g.params),
		RunID:           g.newUUID(),
		Timestamp:       g.clock.Now().UTC(),
	}
}

// configHash fingerprints the static hazard config together with the tuning
// parameters so identical configurations share a hash.
func configHash(h domain.HazardType, p Params) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%+v|%+v", h, h.Config(), p)))
	return hex.EncodeToString(sum[:6])
}

// ConfidenceWeights are the fixed weights of the confidence components.
var ConfidenceWeights = domain.ConfidenceComponents{
	DetectionCertainty: 0.3,
	EnsembleSpread:     0.25,
	DataCoverage:       0.2,
	ModelSkill:         0.25,
}

// GenerateConfidence draws the four confidence components from their ranges
// and aggregates them under ConfidenceWeights.
func (g *Generator) GenerateConfidence() domain.ConfidenceScore {
	c := domain.ConfidenceComponents{
		DetectionCertainty: g.uniform(0.6, 0.95),
		EnsembleSpread:     g.uniform(0.5, 0.9),
		DataCoverage:       g.uniform(0.7, 1.0),
		ModelSkill:         g.uniform(0.65, 0.92),
	}
	return domain.ConfidenceScore{
		Overall:    c.Dot(ConfidenceWeights),
		Components: c,
		Weights:    ConfidenceWeights,
	}
}

// GenerateValidationMetrics draws hindcast skill scores for h. Spill, bloom and
// cyclone events get their hazard-specific extra metric.
func (g *Generator) GenerateValidationMetrics(h domain.HazardType) *domain.ValidationMetrics {
	m := &domain.ValidationMetrics{
		BrierScore: g.uniform(0.05, 0.15),
		POD:        g.uniform(0.7, 0.95),
		FAR:        g.uniform(0.05, 0.25),
		HK:         g.uniform(0.5, 0.85),
	}
	switch h {
	case domain.HazardOilSpill:
		v := g.uniform(0.55, 0.75)
		m.IoU = &v
	case domain.HazardHAB:
		v := g.uniform(0.85, 0.95)
		m.ROCAUC = &v
	case domain.HazardCyclone:
		v := g.uniform(20, 60)
		m.TrackRMSEKm = &v
	}
	return m
}
