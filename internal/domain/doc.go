// Package domain models synthetic ocean hazard forecasts.
//
// # Hazard Types
//
// Five hazard categories are simulated. Each has a static [HazardConfig]
// decoded once from the embedded hazards.yaml and looked up by value:
//
//	oil_spill    3 h steps to 72 h   Gulf of Mexico shelf
//	hab          6 h steps to 48 h   West Florida shelf
//	cyclone      6 h steps to 120 h  Atlantic main development region
//	mhw          single snapshot     Northeast Pacific
//	rip_current  6 h steps to 24 h   Southeast US beaches
//
// # Geometry Conventions
//
// Polygons are closed rings of [lon, lat] pairs in WGS-84 degrees, the same
// order GeoJSON uses. The first vertex is repeated as the last.
//
// # Event Invariants
//
// A well-formed [HazardEvent] satisfies:
//
//	polygons non-empty and sorted by non-decreasing time
//	every polygon probability in [0, 1]
//	expires_at strictly after detection_time
//	confidence.overall == Σ component·weight (±1e-9), weights sum to 1
//
// [Validate] reports every violation at once.
//
// # CAP Vocabulary
//
// Severity, certainty and urgency use the Common Alerting Protocol value sets,
// lower-cased. The alert filter drops minor events only; every other severity,
// unknown included, produces an alert, and unknown uses a fallback instruction.
// [Severity.Rank] orders severities for sorting and display and plays no part
// in that filter.
//
// # Derived Artifacts
//
// Particle ensembles, cyclone tracks, wind fields and bloom grids are derived
// from an existing event on demand. They are never stored; every request
// regenerates them from the event.
package domain
