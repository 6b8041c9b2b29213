package forecast

import (
	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
)

// AlertSender identifies this engine in the CAP sender field.
const AlertSender = "ocean-hazard-engine"

// instructions holds the public action text for every (hazard, severity)
// combination, including the unknown-severity fallback.
var instructions = map[domain.HazardType]map[domain.Severity]string{
	domain.HazardOilSpill: {
		domain.SeverityExtreme:  "Close all fisheries and beaches in the forecast area. Deploy containment booms and keep vessels out of the slick.",
		domain.SeveritySevere:   "Avoid contact with oiled water and shoreline. Suspend fishing and shellfish harvesting in the forecast area.",
		domain.SeverityModerate: "Avoid swimming and fishing near visible sheen. Report oiled wildlife to local authorities.",
		domain.SeverityMinor:    "Light sheen possible. Monitor updates and avoid visible sheen.",
		domain.SeverityUnknown:  "Possible oil in the area. Avoid contact with discolored water and follow local guidance.",
	},
	domain.HazardHAB: {
		domain.SeverityExtreme:  "Stay off affected beaches. People with asthma or respiratory conditions should remain indoors. Do not harvest shellfish.",
		domain.SeveritySevere:   "Limit time on affected beaches and avoid swimming. Do not harvest or eat local shellfish.",
		domain.SeverityModerate: "Respiratory irritation possible at the coast. Do not swim near dead fish or discolored water.",
		domain.SeverityMinor:    "Low bloom concentrations present. Sensitive individuals may notice mild irritation.",
		domain.SeverityUnknown:  "Algal bloom reported. Follow local health department beach advisories.",
	},
	domain.HazardCyclone: {
		domain.SeverityExtreme:  "Complete evacuation of storm surge zones now. Seek shelter in a sturdy structure away from windows.",
		domain.SeveritySevere:   "Prepare to evacuate if ordered. Secure property, stock supplies, and move vessels to safe harbor.",
		domain.SeverityModerate: "Review hurricane plans and secure loose outdoor objects. Small craft should remain in port.",
		domain.SeverityMinor:    "Monitor the forecast. Small craft should exercise caution.",
		domain.SeverityUnknown:  "A tropical system is being monitored. Stay informed through official advisories.",
	},
	domain.HazardMHW: {
		domain.SeverityExtreme:  "Expect widespread marine ecosystem stress. Aquaculture operators should implement emergency heat mitigation.",
		domain.SeveritySevere:   "Aquaculture and fisheries should prepare for heat stress and possible mortality events.",
		domain.SeverityModerate: "Monitor water temperatures and report unusual marine life observations.",
		domain.SeverityMinor:    "Slightly elevated sea temperatures. No action required.",
		domain.SeverityUnknown:  "Elevated sea temperatures reported. Monitor official updates.",
	},
	domain.HazardRipCurrent: {
		domain.SeverityExtreme:  "Do not enter the water. Life-threatening rip currents are occurring at all beaches.",
		domain.SeveritySevere:   "Stay out of the water. If caught in a rip current, swim parallel to shore and signal for help.",
		domain.SeverityModerate: "Swim only near a lifeguard. If caught in a rip current, do not swim against it.",
		domain.SeverityMinor:    "Low rip current risk. Always swim near a lifeguard.",
		domain.SeverityUnknown:  "Rip currents possible. Check with lifeguards before entering the water.",
	},
}

// Instruction returns the action text for a hazard and severity. Severities
// outside the closed set fall back to the unknown entry.
func Instruction(h domain.HazardType, s domain.Severity) string {
	byHazard, ok := instructions[h]
	if !ok {
		return ""
	}
	if text, ok := byHazard[s]; ok {
		return text
	}
	return byHazard[domain.SeverityUnknown]
}

// ToAlerts converts events into CAP alerts, dropping minor events only.
// Unknown severity still alerts. Alert order follows event order.
func ToAlerts(events []domain.HazardEvent) []domain.CAPAlert {
	alerts := make([]domain.CAPAlert, 0, len(events))
	for i := range events {
		e := &events[i]
		if e.Severity == domain.SeverityMinor {
			continue
		}
		alerts = append(alerts, toAlert(e))
	}
	return alerts
}

// GenerateAlerts is ToAlerts exposed on the generator for symmetry with the
// other generation calls.
func (g *Generator) GenerateAlerts(events []domain.HazardEvent) []domain.CAPAlert {
	return ToAlerts(events)
}

func toAlert(e *domain.HazardEvent) domain.CAPAlert {
	polygon := e.SeedPolygon
	if polygon == nil && len(e.Polygons) > 0 {
		polygon = e.Polygons[0].Geometry
	}
	return domain.CAPAlert{
		ID:          "cap-" + e.ID,
		EventID:     e.ID,
		HazardType:  e.HazardType,
		Sender:      AlertSender,
		Sent:        e.DetectionTime,
		Status:      "Actual",
		MsgType:     "Alert",
		Scope:       "Public",
		Category:    alertCategory(e.HazardType),
		Event:       alertEventName(e.HazardType, e.Severity),
		Severity:    e.Severity,
		Certainty:   e.Certainty,
		Urgency:     e.Urgency,
		Headline:    e.Headline,
		Description: e.Description,
		Instruction: Instruction(e.HazardType, e.Severity),
		AreaDesc:    e.AreaDesc,
		Polygon:     polygon,
		Onset:       e.DetectionTime,
		Expires:     e.ExpiresAt,
	}
}

func alertCategory(h domain.HazardType) string {
	switch h {
	case domain.HazardCyclone, domain.HazardRipCurrent:
		return "Met"
	case domain.HazardHAB:
		return "Health"
	default:
		return "Env"
	}
}

// alertEventName follows the NWS convention: warnings for severe and extreme,
// advisories below.
func alertEventName(h domain.HazardType, s domain.Severity) string {
	suffix := "Advisory"
	if s.Rank() >= domain.SeveritySevere.Rank() {
		suffix = "Warning"
	}
	return h.Config().Name + " " + suffix
}
