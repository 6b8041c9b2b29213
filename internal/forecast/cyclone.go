package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
)

const (
	trackStepHours    = 6
	trackHorizonHours = 120
	degToRad          = math.Pi / 180
)

// Category maps sustained wind in m/s to a Saffir-Simpson-like category 0-5.
func Category(intensityMS float64) int {
	switch {
	case intensityMS >= 64:
		return 5
	case intensityMS >= 50:
		return 4
	case intensityMS >= 43:
		return 3
	case intensityMS >= 33:
		return 2
	case intensityMS >= 26:
		return 1
	default:
		return 0
	}
}

// CentralPressure approximates minimum central pressure in hPa from intensity.
func CentralPressure(intensityMS float64) float64 {
	return 1010 - 0.8*intensityMS
}

// radiusOfMaxWind shrinks as the storm intensifies, bounded to [15, 60] km.
func radiusOfMaxWind(intensityMS float64) float64 {
	return math.Max(15, math.Min(60, 70-0.8*intensityMS))
}

// offsetKm moves p by distKm along bearingDeg (clockwise from north).
func offsetKm(p geometry.Position, bearingDeg, distKm float64) geometry.Position {
	b := bearingDeg * degToRad
	dLat := distKm * math.Cos(b) / geometry.KmPerDegree
	dLon := distKm * math.Sin(b) / (geometry.KmPerDegree * math.Cos(p.Lat()*degToRad))
	return geometry.Position{p.Lon() + dLon, p.Lat() + dLat}
}

// bearing returns the heading from a to b in degrees clockwise from north.
func bearing(a, b geometry.Position) float64 {
	dx := (b.Lon() - a.Lon()) * math.Cos((a.Lat()+b.Lat())/2*degToRad)
	dy := b.Lat() - a.Lat()
	return math.Mod(math.Atan2(dx, dy)/degToRad+360, 360)
}

// GenerateCycloneTrack builds a 120-hour forecast track for a cyclone event,
// starting at the seed polygon's centroid. currentHour is clamped to the track
// and selects CurrentIndex. Returns nil for any other hazard type.
func (g *Generator) GenerateCycloneTrack(e domain.HazardEvent, currentHour int) *domain.CycloneTrack {
	if e.HazardType != domain.HazardCyclone {
		return nil
	}
	start := geometry.Centroid(e.SeedPolygon)
	if len(e.SeedPolygon) == 0 && len(e.Polygons) > 0 {
		start = geometry.Centroid(e.Polygons[0].Geometry)
	}

	heading := g.params.CycloneBearingDeg + g.uniform(-15, 15)
	curve := g.uniform(-20, 20)
	speedKmH := g.uniform(15, 25)
	peak := e.Magnitude
	if peak <= 0 {
		peak = g.uniform(35, 70)
	}
	base := peak * g.uniform(0.55, 0.75)

	n := trackHorizonHours/trackStepHours + 1
	points := make([]domain.TrackPoint, n)
	pos := start
	for i := range points {
		hour := i * trackStepHours
		frac := float64(hour) / trackHorizonHours
		if i > 0 {
			b := heading + curve*math.Sin(math.Pi*frac)
			pos = offsetKm(pos, b, speedKmH*trackStepHours)
		}
		intensity := round(base+(peak-base)*math.Sin(math.Pi*frac), 2)
		points[i] = domain.TrackPoint{
			Time:                   e.DetectionTime.Add(time.Duration(hour) * time.Hour),
			Hour:                   hour,
			Position:               pos,
			IntensityMS:            intensity,
			Category:               Category(intensity),
			PressureHPa:            round(CentralPressure(intensity), 1),
			RMaxKm:                 round(radiusOfMaxWind(intensity), 1),
			PositionUncertaintyKm:  30 + 2*float64(hour),
			IntensityUncertaintyMS: 3 + 0.1*float64(hour),
		}
	}

	track := &domain.CycloneTrack{
		ID:                 "track-" + e.ID,
		EventID:            e.ID,
		Name:               e.Name,
		Designation:        fmt.Sprintf("AL%02d%d", g.intRange(1, 30), e.DetectionTime.Year()),
		Basin:              "north_atlantic",
		Points:             points,
		CurrentIndex:       min(max(currentHour, 0), trackHorizonHours) / trackStepHours,
		Cone:               UncertaintyCone(points),
		PotentialIntensity: round(g.uniform(65, 85), 1),
	}
	if g.rng.Float64() < 0.5 {
		last := points[len(points)-1]
		track.Surge = &domain.SurgeForecast{
			MaxSurgeM:  round(g.uniform(0.5, 1.5)*(1+float64(last.Category)), 2),
			ImpactArea: geometry.IrregularPolygon(g.rng, last.Position.Lon(), last.Position.Lat(), 0.5, 12),
		}
	}
	return track
}

// UncertaintyCone offsets each track point perpendicular to the local heading
// by its positional uncertainty, tracing the left side forward and the right
// side back to close the ring.
func UncertaintyCone(points []domain.TrackPoint) geometry.Ring {
	n := len(points)
	if n < 2 {
		return nil
	}
	left := make(geometry.Ring, n)
	right := make(geometry.Ring, n)
	for i, pt := range points {
		prev, next := points[max(i-1, 0)].Position, points[min(i+1, n-1)].Position
		h := bearing(prev, next)
		left[i] = offsetKm(pt.Position, h-90, pt.PositionUncertaintyKm)
		right[i] = offsetKm(pt.Position, h+90, pt.PositionUncertaintyKm)
	}
	cone := make(geometry.Ring, 0, 2*n+1)
	cone = append(cone, left...)
	for i := n - 1; i >= 0; i-- {
		cone = append(cone, right[i])
	}
	return append(cone, cone[0])
}

// WindSpeedAt evaluates the modified Rankine vortex: a linear rise to maxWind at
// rMax, an inverse-square-root fall-off beyond it, and an exp(-r/(8·rMax))
// far-field decay applied throughout.
func WindSpeedAt(rKm, maxWind, rMaxKm float64) float64 {
	if rKm <= 0 || rMaxKm <= 0 {
		return 0
	}
	var v float64
	if rKm <= rMaxKm {
		v = maxWind * rKm / rMaxKm
	} else {
		v = maxWind * math.Sqrt(rMaxKm/rKm)
	}
	return v * math.Exp(-rKm/(8*rMaxKm))
}

// GenerateCycloneWindField samples a square grid of half-width halfWidthDeg at
// the default spacing around (lon, lat).
func GenerateCycloneWindField(lon, lat, maxWind, rMaxKm, halfWidthDeg float64) []domain.WindFieldPoint {
	return WindField(DefaultParams(), lon, lat, maxWind, rMaxKm, halfWidthDeg)
}

// WindField samples the vortex on a grid. Winds blow counter-clockwise around
// the centre, turned inward by the inflow angle. Samples within 1 km of the
// centre are skipped.
func WindField(p Params, lon, lat, maxWind, rMaxKm, halfWidthDeg float64) []domain.WindFieldPoint {
	spacing := p.WindGridSpacingDeg
	if spacing <= 0 || halfWidthDeg < 0 {
		return []domain.WindFieldPoint{}
	}
	steps := int(math.Floor(halfWidthDeg/spacing + 1e-9))
	inflow := p.WindInflowDeg * degToRad

	out := make([]domain.WindFieldPoint, 0, (2*steps+1)*(2*steps+1))
	for i := -steps; i <= steps; i++ {
		for j := -steps; j <= steps; j++ {
			pt := geometry.Position{lon + float64(i)*spacing, lat + float64(j)*spacing}
			dx := (pt.Lon() - lon) * math.Cos((pt.Lat()+lat)/2*degToRad) * geometry.KmPerDegree
			dy := (pt.Lat() - lat) * geometry.KmPerDegree
			r := math.Hypot(dx, dy)
			if r < 1 {
				continue
			}
			speed := WindSpeedAt(r, maxWind, rMaxKm)

			// Unit radial vector pointing away from the centre.
			rx, ry := dx/r, dy/r
			// Counter-clockwise tangent, rotated toward the centre by the inflow angle.
			tx, ty := -ry, rx
			u := speed * (math.Cos(inflow)*tx - math.Sin(inflow)*rx)
			v := speed * (math.Cos(inflow)*ty - math.Sin(inflow)*ry)

			out = append(out, domain.WindFieldPoint{
				Position:     pt,
				DistanceKm:   round(r, 2),
				SpeedMS:      speed,
				U:            u,
				V:            v,
				DirectionDeg: math.Mod(math.Atan2(u, v)/degToRad+360, 360),
			})
		}
	}
	return out
}
