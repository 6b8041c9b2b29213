// Package geometry provides the planar polygon helpers used to build and
// evolve hazard footprints: irregular seed rings, time advection, centroids,
// bounding boxes, and approximate areas.
//
// Coordinates are WGS-84 degrees in [lon, lat] order, matching GeoJSON. All
// distance and area conversions use a flat-earth approximation of 111 km per
// degree, which is adequate at event scale (tens to hundreds of kilometres).
package geometry

import (
	"math"
	"math/rand/v2"
)

// KmPerDegree is the flat-earth conversion factor between degrees and kilometres.
const KmPerDegree = 111.0

// latCompression squashes the north-south extent of generated rings so seed
// polygons look elongated on a Web Mercator map.
const latCompression = 0.7

// SpreadPerHour is the fractional growth of a polygon's vertex offsets from its
// centroid for every hour of advection.
const SpreadPerHour = 0.01

// Position is a [lon, lat] coordinate pair.
type Position [2]float64

// Lon returns the longitude component.
func (p Position) Lon() float64 { return p[0] }

// Lat returns the latitude component.
func (p Position) Lat() float64 { return p[1] }

// Ring is a sequence of positions. Rings produced by this package are closed:
// the last position repeats the first.
type Ring []Position

// Closed reports whether the ring's last vertex equals its first.
func (r Ring) Closed() bool {
	return len(r) > 1 && r[0] == r[len(r)-1]
}

// vertices returns the ring without its closing duplicate.
func (r Ring) vertices() Ring {
	if r.Closed() {
		return r[:len(r)-1]
	}
	return r
}

// IrregularPolygon samples numPoints evenly spaced angles around the centre and
// perturbs each radius by a random factor in [0.6, 1.4]. The ring is closed by
// repeating the first vertex. Returns nil when numPoints is not positive.
func IrregularPolygon(rng *rand.Rand, centerLon, centerLat, radiusDeg float64, numPoints int) Ring {
	if numPoints <= 0 {
		return nil
	}
	ring := make(Ring, 0, numPoints+1)
	for i := range numPoints {
		angle := 2 * math.Pi * float64(i) / float64(numPoints)
		r := radiusDeg * (0.6 + rng.Float64()*0.8)
		ring = append(ring, Position{
			centerLon + r*math.Cos(angle),
			centerLat + r*math.Sin(angle)*latCompression,
		})
	}
	return append(ring, ring[0])
}

// Centroid returns the arithmetic mean of the ring's distinct vertices.
func Centroid(r Ring) Position {
	v := r.vertices()
	if len(v) == 0 {
		return Position{}
	}
	var sumLon, sumLat float64
	for _, p := range v {
		sumLon += p.Lon()
		sumLat += p.Lat()
	}
	n := float64(len(v))
	return Position{sumLon / n, sumLat / n}
}

// Advect moves a polygon forward by the given number of hours under a uniform
// drift of (u, v) degrees per hour. Each vertex offset from the centroid is
// scaled by 1 + SpreadPerHour·hours and then displaced by independent uniform
// jitter in [-jitter, jitter] on each axis. A zero jitter (or nil rng) makes
// the operation deterministic. Closed input rings stay closed.
func Advect(rng *rand.Rand, r Ring, hours, u, v, jitter float64) Ring {
	if len(r) == 0 {
		return nil
	}
	c := Centroid(r)
	spread := 1 + SpreadPerHour*hours
	newLon := c.Lon() + u*hours
	newLat := c.Lat() + v*hours

	closed := r.Closed()
	out := make(Ring, len(r))
	for i, p := range r {
		if closed && i == len(r)-1 {
			out[i] = out[0]
			break
		}
		var jx, jy float64
		if jitter > 0 && rng != nil {
			jx = (rng.Float64()*2 - 1) * jitter
			jy = (rng.Float64()*2 - 1) * jitter
		}
		out[i] = Position{
			newLon + (p.Lon()-c.Lon())*spread + jx,
			newLat + (p.Lat()-c.Lat())*spread + jy,
		}
	}
	return out
}

// Area estimates the enclosed area in km² with the shoelace formula and the
// flat-earth degree scale.
func Area(r Ring) float64 {
	v := r.vertices()
	if len(v) < 3 {
		return 0
	}
	var sum float64
	for i := range v {
		j := (i + 1) % len(v)
		sum += v[i].Lon()*v[j].Lat() - v[j].Lon()*v[i].Lat()
	}
	return math.Abs(sum) / 2 * KmPerDegree * KmPerDegree
}

// DistanceKm returns the equirectangular distance between two positions,
// scaling longitude by the cosine of the mean latitude.
func DistanceKm(a, b Position) float64 {
	meanLat := (a.Lat() + b.Lat()) / 2 * math.Pi / 180
	dx := (b.Lon() - a.Lon()) * math.Cos(meanLat) * KmPerDegree
	dy := (b.Lat() - a.Lat()) * KmPerDegree
	return math.Hypot(dx, dy)
}

// Circle returns a closed regular ring of the given radius in degrees.
func Circle(center Position, radiusDeg float64, numPoints int) Ring {
	if numPoints <= 0 {
		return nil
	}
	ring := make(Ring, 0, numPoints+1)
	for i := range numPoints {
		angle := 2 * math.Pi * float64(i) / float64(numPoints)
		ring = append(ring, Position{
			center.Lon() + radiusDeg*math.Cos(angle),
			center.Lat() + radiusDeg*math.Sin(angle),
		})
	}
	return append(ring, ring[0])
}
