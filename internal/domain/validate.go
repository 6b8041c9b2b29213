package domain

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
)

// ConfidenceTolerance bounds the allowed drift between a confidence score's
// overall value and the weighted sum of its components.
const ConfidenceTolerance = 1e-9

// Validate checks every structural invariant of a generated event and returns
// all violations at once, or nil when the event is well formed.
func Validate(e HazardEvent) error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if e.ID == "" {
		fail("id is empty")
	}
	if !e.HazardType.Valid() {
		fail("unknown hazard type %q", e.HazardType)
	}
	if !e.Severity.Valid() {
		fail("invalid severity %q", e.Severity)
	}
	if !e.Certainty.Valid() {
		fail("invalid certainty %q", e.Certainty)
	}
	if !e.Urgency.Valid() {
		fail("invalid urgency %q", e.Urgency)
	}
	if !e.ExpiresAt.After(e.DetectionTime) {
		fail("expires_at %s is not after detection_time %s", e.ExpiresAt, e.DetectionTime)
	}

	if len(e.Polygons) == 0 {
		fail("polygons is empty")
	}
	for i, p := range e.Polygons {
		if p.Probability < 0 || p.Probability > 1 || math.IsNaN(p.Probability) {
			fail("polygons[%d]: probability %v outside [0,1]", i, p.Probability)
		}
		if i > 0 && p.Time.Before(e.Polygons[i-1].Time) {
			fail("polygons[%d]: time %s precedes previous step", i, p.Time)
		}
	}

	if err := ValidateConfidence(e.Confidence); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// ValidateConfidence checks component ranges, weight normalisation, and that
// Overall is the weighted sum of the components.
func ValidateConfidence(c ConfidenceScore) error {
	var result *multierror.Error
	for name, v := range map[string]float64{
		"detection_certainty": c.Components.DetectionCertainty,
		"ensemble_spread":     c.Components.EnsembleSpread,
		"data_coverage":       c.Components.DataCoverage,
		"model_skill":         c.Components.ModelSkill,
	} {
		if v < 0 || v > 1 {
			result = multierror.Append(result, fmt.Errorf("confidence %s %v outside [0,1]", name, v))
		}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1) > ConfidenceTolerance {
		result = multierror.Append(result, fmt.Errorf("confidence weights sum to %v, want 1", sum))
	}
	if want := c.Components.Dot(c.Weights); math.Abs(c.Overall-want) > ConfidenceTolerance {
		result = multierror.Append(result, fmt.Errorf("confidence overall %v != weighted sum %v", c.Overall, want))
	}
	return result.ErrorOrNil()
}
