package geometry

import "math"

// BoundingBox is an axis-aligned extent in degrees.
type BoundingBox struct {
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
}

// Bounds returns the bounding box of a ring. An empty ring yields the zero box.
func Bounds(r Ring) BoundingBox {
	if len(r) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{
		MinLon: math.Inf(1), MinLat: math.Inf(1),
		MaxLon: math.Inf(-1), MaxLat: math.Inf(-1),
	}
	for _, p := range r {
		b.MinLon = math.Min(b.MinLon, p.Lon())
		b.MinLat = math.Min(b.MinLat, p.Lat())
		b.MaxLon = math.Max(b.MaxLon, p.Lon())
		b.MaxLat = math.Max(b.MaxLat, p.Lat())
	}
	return b
}

// Expand grows the box by d degrees on every side.
func (b BoundingBox) Expand(d float64) BoundingBox {
	return BoundingBox{
		MinLon: b.MinLon - d,
		MinLat: b.MinLat - d,
		MaxLon: b.MaxLon + d,
		MaxLat: b.MaxLat + d,
	}
}

// Width is the east-west extent in degrees.
func (b BoundingBox) Width() float64 { return b.MaxLon - b.MinLon }

// Height is the north-south extent in degrees.
func (b BoundingBox) Height() float64 { return b.MaxLat - b.MinLat }

// Area is the box area in degrees².
func (b BoundingBox) Area() float64 { return b.Width() * b.Height() }

// Contains reports whether p lies inside or on the edge of the box.
func (b BoundingBox) Contains(p Position) bool {
	return p.Lon() >= b.MinLon && p.Lon() <= b.MaxLon &&
		p.Lat() >= b.MinLat && p.Lat() <= b.MaxLat
}
