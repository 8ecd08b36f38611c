package channel

import (
	"github.com/RickytheGuy/FloodImpact/pkg/amenity"
	"github.com/RickytheGuy/FloodImpact/pkg/raster"
	"github.com/RickytheGuy/FloodImpact/pkg/vector"
)

// AmenityPoint is one retained point: its pixel in the reference grid, the
// raw tag it was classified from, and the resolved category and repair cost.
type AmenityPoint struct {
	Col, Row int
	Tag      string
	Category amenity.Category
	Cost     float64
}

// AmenityResult carries the retained points and their summary statistics.
type AmenityResult struct {
	// Counts tabulates retained points per category. Uncategorized points
	// are retained but not tabulated.
	Counts map[amenity.Category]int
	// Points lists the retained points in input order. Zero-cost points are
	// included; they still scatter into the cost channel and can overwrite
	// an earlier point sharing the pixel.
	Points []AmenityPoint
	// MaxCost is the largest single-point cost among retained points, the
	// denominator for channel scaling. Zero when nothing was retained.
	MaxCost float64
}

// CostByte scales one point cost into the byte channel against the retained
// maximum: cost * 255 / maxCost, truncated. Zero when maxCost is zero, so an
// empty retained set never divides by zero.
func CostByte(cost, maxCost float64) uint8 {
	if maxCost <= 0 {
		return 0
	}
	return quantize(cost * 255 / maxCost)
}

// Amenities maps each point into the flood grid and keeps those landing on
// a flooded pixel. Points whose pixel falls outside the raster are dropped
// before the flood extent is consulted. Input order is preserved.
func Amenities(flood *raster.Layer, points []vector.Point, classifier amenity.Classifier) AmenityResult {
	g := flood.Grid
	res := AmenityResult{Counts: make(map[amenity.Category]int)}
	for _, p := range points {
		col, row := g.PixelOf(p.X, p.Y)
		if !g.Contains(col, row) {
			continue
		}
		if flood.At(row, col) != 1 {
			continue
		}
		cat, tag := classifier.Resolve(p.Attrs)
		c := classifier.Cost(cat)
		res.Points = append(res.Points, AmenityPoint{Col: col, Row: row, Tag: tag, Category: cat, Cost: c})
		if cat != amenity.None {
			res.Counts[cat]++
		}
		if c > res.MaxCost {
			res.MaxCost = c
		}
	}
	return res
}
