package forecast

import (
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
)

// EventsOfType returns the events of hazard type h, preserving order.
func EventsOfType(events []domain.HazardEvent, h domain.HazardType) []domain.HazardEvent {
	return filter(events, func(e domain.HazardEvent) bool { return e.HazardType == h })
}

// EventsAboveConfidence returns the events whose overall confidence is at
// least threshold, preserving order.
func EventsAboveConfidence(events []domain.HazardEvent, threshold float64) []domain.HazardEvent {
	return filter(events, func(e domain.HazardEvent) bool { return e.Confidence.Overall >= threshold })
}

// AlertsWithSeverity returns the alerts of severity s, preserving order.
func AlertsWithSeverity(alerts []domain.CAPAlert, s domain.Severity) []domain.CAPAlert {
	return filter(alerts, func(a domain.CAPAlert) bool { return a.Severity == s })
}

// PolygonAt selects the forecast step in effect hour hours after detection:
// the last step whose time is not after that instant. Negative hours select
// the first step and hours past the horizon select the last. The second
// result is false only when the event has no polygons.
func PolygonAt(e domain.HazardEvent, hour int) (domain.TimedPolygon, bool) {
	if len(e.Polygons) == 0 {
		return domain.TimedPolygon{}, false
	}
	first, last := e.Polygons[0], e.Polygons[len(e.Polygons)-1]
	if hour < 0 {
		return first, true
	}
	// Compare in hours first so huge cursors never reach Duration arithmetic.
	if float64(hour) >= last.Time.Sub(e.DetectionTime).Hours() {
		return last, true
	}
	at := e.DetectionTime.Add(time.Duration(hour) * time.Hour)
	selected := first
	for _, p := range e.Polygons[1:] {
		if p.Time.After(at) {
			break
		}
		selected = p
	}
	return selected, true
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
