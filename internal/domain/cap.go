package domain

import (
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
)

// Severity follows the CAP severity vocabulary.
type Severity string

const (
	SeverityExtreme  Severity = "extreme"
	SeveritySevere   Severity = "severe"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
	SeverityUnknown  Severity = "unknown"
)

// Severities lists every severity from most to least severe, then unknown.
func Severities() []Severity {
	return []Severity{SeverityExtreme, SeveritySevere, SeverityModerate, SeverityMinor, SeverityUnknown}
}

// Rank orders severities for sorting: extreme=4 down to minor=1; unknown is 0.
// It is not an alert threshold; alerting drops minor only.
func (s Severity) Rank() int {
	switch s {
	case SeverityExtreme:
		return 4
	case SeveritySevere:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s belongs to the closed severity set.
func (s Severity) Valid() bool {
	return s.Rank() > 0 || s == SeverityUnknown
}

// Certainty follows the CAP certainty vocabulary.
type Certainty string

const (
	CertaintyObserved Certainty = "observed"
	CertaintyLikely   Certainty = "likely"
	CertaintyPossible Certainty = "possible"
	CertaintyUnlikely Certainty = "unlikely"
	CertaintyUnknown  Certainty = "unknown"
)

// Valid reports whether c belongs to the closed certainty set.
func (c Certainty) Valid() bool {
	switch c {
	case CertaintyObserved, CertaintyLikely, CertaintyPossible, CertaintyUnlikely, CertaintyUnknown:
		return true
	}
	return false
}

// Urgency follows the CAP urgency vocabulary.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyExpected  Urgency = "expected"
	UrgencyFuture    Urgency = "future"
	UrgencyPast      Urgency = "past"
	UrgencyUnknown   Urgency = "unknown"
)

// Valid reports whether u belongs to the closed urgency set.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyImmediate, UrgencyExpected, UrgencyFuture, UrgencyPast, UrgencyUnknown:
		return true
	}
	return false
}

// CAPAlert is a Common Alerting Protocol style message derived from one event.
type CAPAlert struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	HazardType  HazardType    `json:"hazard_type"`
	Sender      string        `json:"sender"`
	Sent        time.Time     `json:"sent"`
	Status      string        `json:"status"`
	MsgType     string        `json:"msg_type"`
	Scope       string        `json:"scope"`
	Category    string        `json:"category"`
	Event       string        `json:"event"`
	Severity    Severity      `json:"severity"`
	Certainty   Certainty     `json:"certainty"`
	Urgency     Urgency       `json:"urgency"`
	Headline    string        `json:"headline"`
	Description string        `json:"description"`
	Instruction string        `json:"instruction"`
	AreaDesc    string        `json:"area_desc"`
	Polygon     geometry.Ring `json:"polygon,omitempty"`
	Onset       time.Time     `json:"onset"`
	Expires     time.Time     `json:"expires"`
}
