package forecast

import (
	"math"
	"sort"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	"github.com/couchcryptid/ocean-hazard-engine/internal/geometry"
)

// bloomPadDeg is the margin added around the seed polygon's bounding box.
const bloomPadDeg = 0.5

// BloomFeatures are the drivers attributed on every bloom grid cell.
var BloomFeatures = []string{
	"chlorophyll_anomaly",
	"sst_anomaly",
	"nitrate",
	"river_discharge",
	"mixed_layer_shoaling",
}

// GenerateHABGrid fills the seed polygon's bounding box, padded by half a
// degree, with probability cells at the configured resolution. Each cell
// carries signed feature contributions and the feature with the largest
// magnitude as its dominant factor. Returns nil for any other hazard type.
func (g *Generator) GenerateHABGrid(e domain.HazardEvent) *domain.HABForecast {
	if e.HazardType != domain.HazardHAB || len(e.SeedPolygon) == 0 {
		return nil
	}
	res := g.params.HABResolutionDeg
	bounds := geometry.Bounds(e.SeedPolygon).Expand(bloomPadDeg)
	nx := max(1, int(bounds.Width()/res+1e-9))
	ny := max(1, int(bounds.Height()/res+1e-9))

	center := geometry.Centroid(e.SeedPolygon)
	sigma := math.Max(bounds.Width(), bounds.Height()) / 3

	totals := make(map[string]float64, len(BloomFeatures))
	cells := make([]domain.HABCell, 0, nx*ny)
	for j := range ny {
		for i := range nx {
			pos := geometry.Position{
				bounds.MinLon + (float64(i)+0.5)*res,
				bounds.MinLat + (float64(j)+0.5)*res,
			}
			d := math.Hypot(pos.Lon()-center.Lon(), pos.Lat()-center.Lat())
			prob := clamp01(0.9*math.Exp(-d*d/(2*sigma*sigma)) + g.uniform(-0.1, 0.1))

			attribution := make(map[string]float64, len(BloomFeatures))
			dominant, best := "", -1.0
			for _, f := range BloomFeatures {
				c := round((prob-0.5)*0.4+g.uniform(-0.25, 0.25), 4)
				attribution[f] = c
				totals[f] += math.Abs(c)
				if math.Abs(c) > best {
					dominant, best = f, math.Abs(c)
				}
			}
			cells = append(cells, domain.HABCell{
				Position:       pos,
				Probability:    round(prob, 4),
				Attribution:    attribution,
				DominantFactor: dominant,
			})
		}
	}

	importance := make([]domain.FeatureImportance, 0, len(BloomFeatures))
	for _, f := range BloomFeatures {
		importance = append(importance, domain.FeatureImportance{
			Feature:    f,
			Importance: round(totals[f]/float64(len(cells)), 4),
		})
	}
	sort.SliceStable(importance, func(a, b int) bool {
		return importance[a].Importance > importance[b].Importance
	})

	return &domain.HABForecast{
		EventID:           e.ID,
		Cells:             cells,
		ResolutionDeg:     res,
		Bounds:            bounds,
		FeatureImportance: importance,
	}
}
