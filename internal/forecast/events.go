package forecast

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
)

// GenerateEvents produces count fresh events of hazard type h. Unknown hazard
// types and non-positive counts yield an empty result.
func (g *Generator) GenerateEvents(h domain.HazardType, count int) []domain.HazardEvent {
	if !h.Valid() || count <= 0 {
		return []domain.HazardEvent{}
	}
	build := map[domain.HazardType]func() domain.HazardEvent{
		domain.HazardOilSpill:   g.oilSpillEvent,
		domain.HazardHAB:        g.bloomEvent,
		domain.HazardCyclone:    g.cycloneEvent,
		domain.HazardMHW:        g.heatwaveEvent,
		domain.HazardRipCurrent: g.ripCurrentEvent,
	}[h]

	events := make([]domain.HazardEvent, count)
	for i := range events {
		events[i] = build()
	}
	return events
}

// newEvent fills the fields shared by every hazard type.
func (g *Generator) newEvent(h domain.HazardType) domain.HazardEvent {
	now := g.clock.Now().UTC().Truncate(time.Minute)
	detected := now.Add(-time.Duration(g.rng.IntN(360)) * time.Minute)
	cfg := h.Config()
	horizon := max(cfg.ForecastHours, cfg.UpdateIntervalHours)

	return domain.HazardEvent{
		ID:            fmt.Sprintf("%s-%s", h, strings.ReplaceAll(g.newUUID(), "-", "")[:16]),
		HazardType:    h,
		DetectionTime: detected,
		Confidence:    g.GenerateConfidence(),
		Provenance:    g.GenerateProvenance(h),
		Validation:    g.GenerateValidationMetrics(h),
		ExpiresAt:     detected.Add(time.Duration(horizon) * time.Hour),
	}
}

func (g *Generator) pointIn(b geometry.BoundingBox) geometry.Position {
	return geometry.Position{g.uniform(b.MinLon, b.MaxLon), g.uniform(b.MinLat, b.MaxLat)}
}

// forecastHours lists the step offsets 0, interval, ... up to the horizon.
func forecastHours(cfg domain.HazardConfig) []int {
	hours := []int{0}
	for h := cfg.UpdateIntervalHours; h <= cfg.ForecastHours; h += cfg.UpdateIntervalHours {
		hours = append(hours, h)
	}
	return hours
}

// advectedTimeline advects seed to every step and attaches prob(h).
func (g *Generator) advectedTimeline(e *domain.HazardEvent, u, v float64, prob func(h int) float64) {
	for _, h := range forecastHours(e.HazardType.Config()) {
		ring := e.SeedPolygon
		if h > 0 {
			ring = geometry.Advect(g.rng, e.SeedPolygon, float64(h), u, v, g.params.AdvectionJitter)
		}
		g.appendStep(e, h, ring, prob(h))
	}
}

func (g *Generator) appendStep(e *domain.HazardEvent, h int, ring geometry.Ring, p float64) {
	e.Polygons = append(e.Polygons, domain.TimedPolygon{
		Time:        e.DetectionTime.Add(time.Duration(h) * time.Hour),
		Geometry:    ring,
		Probability: round(clamp01(p), 4),
	})
	e.ProbabilityTiles = append(e.ProbabilityTiles, fmt.Sprintf("tiles/%s/%s/f%03d.tif", e.HazardType, e.ID, h))
}

var spillRegions = []string{
	"Mississippi Canyon", "Green Canyon", "Viosca Knoll", "Main Pass",
	"South Timbalier", "Ewing Bank", "Breton Sound", "Chandeleur Islands",
}

func (g *Generator) oilSpillEvent() domain.HazardEvent {
	cfg := domain.HazardOilSpill.Config()
	e := g.newEvent(domain.HazardOilSpill)
	c := g.pointIn(cfg.Region)
	e.SeedPolygon = geometry.IrregularPolygon(g.rng, c.Lon(), c.Lat(), g.uniform(0.08, 0.2), 12)

	p := g.params
	g.advectedTimeline(&e, p.SpillDriftU, p.SpillDriftV, func(h int) float64 {
		noise := g.uniform(-p.SpillProbabilityNoise, p.SpillProbabilityNoise)
		return p.SpillProbabilityStart - p.SpillProbabilityDecay*float64(h) + noise
	})

	area := geometry.Area(e.SeedPolygon)
	volume := g.uniform(50, 5000)
	e.Magnitude = round(area, 1)
	e.Unit = "km2"
	e.Source = "sentinel-1-sar"
	e.Severity = pick(g, []domain.Severity{domain.SeverityMinor, domain.SeverityModerate, domain.SeveritySevere})
	e.Certainty = domain.CertaintyObserved
	e.Urgency = domain.UrgencyImmediate
	e.AffectedRegions = pickN(g, spillRegions, g.intRange(1, 3))
	e.AreaDesc = strings.Join(e.AffectedRegions, ", ")
	e.Headline = fmt.Sprintf("Oil slick of %.0f km² detected near %s", area, e.AffectedRegions[0])
	e.Description = fmt.Sprintf(
		"SAR imagery shows a surface slick of approximately %.0f km² (est. %.0f barrels). "+
			"Drift forecast to the east-northeast at %.1f km/h over the next %d hours.",
		area, volume, math.Hypot(p.SpillDriftU, p.SpillDriftV)*geometry.KmPerDegree, cfg.ForecastHours)
	return e
}

var bloomRegions = []string{
	"Sarasota Bay", "Charlotte Harbor", "Tampa Bay", "Pine Island Sound",
	"Estero Bay", "Naples", "Boca Grande", "Anna Maria Island",
}

func (g *Generator) bloomEvent() domain.HazardEvent {
	cfg := domain.HazardHAB.Config()
	e := g.newEvent(domain.HazardHAB)
	c := g.pointIn(cfg.Region)
	e.SeedPolygon = geometry.IrregularPolygon(g.rng, c.Lon(), c.Lat(), g.uniform(0.15, 0.4), 14)

	g.advectedTimeline(&e, g.params.BloomDriftU, g.params.BloomDriftV, func(int) float64 {
		return g.uniform(0.7, 0.95)
	})

	chl := g.uniform(5, 60)
	cells := g.intRange(10, 1000) * 1000
	e.Magnitude = round(chl, 1)
	e.Unit = "mg_m3"
	e.Source = "sentinel-3-olci"
	e.Severity = pick(g, []domain.Severity{domain.SeverityMinor, domain.SeverityModerate, domain.SeveritySevere})
	e.Certainty = domain.CertaintyLikely
	e.Urgency = domain.UrgencyExpected
	e.AffectedRegions = pickN(g, bloomRegions, g.intRange(1, 3))
	e.AreaDesc = "West Florida Shelf: " + strings.Join(e.AffectedRegions, ", ")
	e.Headline = fmt.Sprintf("Karenia brevis bloom likely near %s", e.AffectedRegions[0])
	e.Description = fmt.Sprintf(
		"Chlorophyll-a anomaly of %.1f mg/m³ with estimated cell counts near %d cells/L. "+
			"Respiratory irritation and fish kills possible along affected beaches for %d hours.",
		chl, cells, cfg.ForecastHours)
	return e
}

var cycloneNames = []string{
	"Arlene", "Bret", "Cindy", "Don", "Emily", "Franklin", "Gert", "Harold",
	"Idalia", "Jose", "Katia", "Lee", "Margot", "Nigel", "Ophelia", "Philippe",
}

var cycloneRegions = []string{
	"Leeward Islands", "Puerto Rico", "Hispaniola", "Turks and Caicos",
	"Bahamas", "Bermuda", "US Virgin Islands", "Cuba",
}

// cycloneSeverity maps a Saffir-Simpson-like category to an alert severity.
func cycloneSeverity(category int) domain.Severity {
	switch {
	case category >= 4:
		return domain.SeverityExtreme
	case category >= 2:
		return domain.SeveritySevere
	case category >= 1:
		return domain.SeverityModerate
	default:
		return domain.SeverityMinor
	}
}

func (g *Generator) cycloneEvent() domain.HazardEvent {
	cfg := domain.HazardCyclone.Config()
	e := g.newEvent(domain.HazardCyclone)
	c := g.pointIn(cfg.Region)
	seedRadius := g.uniform(0.6, 1.2)
	e.SeedPolygon = geometry.IrregularPolygon(g.rng, c.Lon(), c.Lat(), seedRadius, 16)

	// The forecast footprint is a widening disc that follows the storm rather
	// than an advected copy of the seed.
	p := g.params
	for _, h := range forecastHours(cfg) {
		hours := float64(h)
		center := geometry.Position{c.Lon() + p.CycloneDriftU*hours, c.Lat() + p.CycloneDriftV*hours}
		radius := seedRadius + p.CycloneConeGrowthKmPerHour*hours/geometry.KmPerDegree
		g.appendStep(&e, h, geometry.Circle(center, radius, 24), p.CycloneProbabilityStart-p.CycloneProbabilityDecay*hours)
	}

	wind := round(g.uniform(20, 75), 1)
	category := Category(wind)
	e.Name = pick(g, cycloneNames)
	e.Magnitude = wind
	e.Unit = "m_s"
	e.Source = "goes-16-abi"
	e.Severity = cycloneSeverity(category)
	e.Certainty = domain.CertaintyLikely
	e.Urgency = domain.UrgencyExpected
	if category >= 3 {
		e.Urgency = domain.UrgencyImmediate
	}
	e.AffectedRegions = pickN(g, cycloneRegions, g.intRange(1, 4))
	e.AreaDesc = "North Atlantic: " + strings.Join(e.AffectedRegions, ", ")
	e.Headline = fmt.Sprintf("%s %s forecast to affect %s", stormLabel(category), e.Name, e.AffectedRegions[0])
	e.Description = fmt.Sprintf(
		"Maximum sustained winds near %.0f m/s (category %d) with central pressure near %.0f hPa. "+
			"Track moving west-northwest; %d-hour forecast cone shown.",
		wind, category, CentralPressure(wind), cfg.ForecastHours)
	return e
}

func stormLabel(category int) string {
	if category == 0 {
		return "Tropical Storm"
	}
	return "Hurricane"
}

var heatwaveRegions = []string{
	"Gulf of Alaska", "California Current", "Oregon Coast", "Washington Shelf",
	"British Columbia Shelf", "Northeast Pacific Gyre",
}

// heatwaveSeverity follows the Hobday categories: moderate below 2 °C,
// strong (severe) below 3 °C, extreme above.
func heatwaveSeverity(anomaly float64) domain.Severity {
	switch {
	case anomaly >= 3:
		return domain.SeverityExtreme
	case anomaly >= 2:
		return domain.SeveritySevere
	default:
		return domain.SeverityModerate
	}
}

func (g *Generator) heatwaveEvent() domain.HazardEvent {
	cfg := domain.HazardMHW.Config()
	e := g.newEvent(domain.HazardMHW)
	c := g.pointIn(cfg.Region)
	e.SeedPolygon = geometry.IrregularPolygon(g.rng, c.Lon(), c.Lat(), g.uniform(2, 4), 20)
	g.appendStep(&e, 0, e.SeedPolygon, 1.0)

	days := g.intRange(5, 30)
	since := e.DetectionTime.Add(-time.Duration(days) * 24 * time.Hour)
	anomaly := round(g.uniform(1, 4), 2)
	e.ActiveSince = &since
	e.Magnitude = anomaly
	e.Unit = "degC"
	e.Source = "noaa-oisst"
	e.Severity = heatwaveSeverity(anomaly)
	e.Certainty = domain.CertaintyObserved
	e.Urgency = domain.UrgencyFuture
	e.AffectedRegions = pickN(g, heatwaveRegions, g.intRange(1, 2))
	e.AreaDesc = strings.Join(e.AffectedRegions, ", ")
	e.Headline = fmt.Sprintf("Marine heatwave persisting over %s for %d days", e.AffectedRegions[0], days)
	e.Description = fmt.Sprintf(
		"Sea surface temperatures %.1f °C above the seasonal 90th percentile since %s. "+
			"Elevated risk of coral and kelp stress, fishery displacement, and bloom formation.",
		anomaly, since.Format("2006-01-02"))
	return e
}

// Beach is a monitored rip current site.
type Beach struct {
	Name   string
	Region string
	Lon    float64
	Lat    float64
}

// Beaches is the fixed list of monitored rip current sites.
var Beaches = []Beach{
	{"Panama City Beach", "Florida Panhandle", -85.85, 30.18},
	{"Daytona Beach", "Northeast Florida", -81.02, 29.22},
	{"Miami Beach", "Southeast Florida", -80.13, 25.79},
	{"Tybee Island", "Georgia Coast", -80.84, 32.00},
	{"Folly Beach", "South Carolina Coast", -79.94, 32.65},
	{"Wrightsville Beach", "North Carolina Coast", -77.80, 34.21},
	{"Kill Devil Hills", "Outer Banks", -75.67, 36.02},
	{"Gulf Shores", "Alabama Coast", -87.70, 30.25},
}

const ripRadiusDeg = 0.01

func (g *Generator) ripCurrentEvent() domain.HazardEvent {
	e := g.newEvent(domain.HazardRipCurrent)
	beach := pick(g, Beaches)
	e.SeedPolygon = geometry.IrregularPolygon(g.rng, beach.Lon, beach.Lat, ripRadiusDeg, 8)

	// Rip channels are stationary over a tidal cycle; only the likelihood varies.
	for _, h := range forecastHours(domain.HazardRipCurrent.Config()) {
		g.appendStep(&e, h, e.SeedPolygon, g.uniform(0.6, 0.9))
	}

	waveHeight := g.uniform(0.8, 2.5)
	period := g.intRange(7, 14)
	e.Name = beach.Name
	e.Magnitude = round(waveHeight, 2)
	e.Unit = "m"
	e.Source = "ndbc-buoy"
	e.Severity = pick(g, []domain.Severity{domain.SeverityMinor, domain.SeverityModerate, domain.SeveritySevere})
	e.Certainty = domain.CertaintyPossible
	if waveHeight > 1.8 {
		e.Certainty = domain.CertaintyLikely
	}
	e.Urgency = domain.UrgencyImmediate
	e.AffectedRegions = []string{beach.Name, beach.Region}
	e.AreaDesc = beach.Name + ", " + beach.Region
	e.Headline = fmt.Sprintf("Dangerous rip currents expected at %s", beach.Name)
	e.Description = fmt.Sprintf(
		"Breaking waves of %.1f m with %d s period are producing rip channels. "+
			"Swimmers should stay near lifeguard towers.", waveHeight, period)
	return e
}
