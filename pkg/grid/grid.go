// Package grid defines the reference pixel grid that every raster layer and
// output in a flood impact run is aligned to. The grid is taken from the
// flood raster at load time and never resized or reprojected afterwards.
package grid

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
)

// Degree-to-area conversion for geographic grids. One degree spans roughly
// 111128 m of latitude and 111120 m of longitude, so a 1°x1° cell covers
// their product in m². Only valid for unprojected (longlat) grids; projected
// grids trigger a validation warning instead of a different formula.
const (
	sqDegreeToSqMeter = 111128.0 * 111120.0
	m2PerHectare      = 10000.0
)

// Grid is an affine pixel grid in GDAL geotransform terms: the world
// coordinate of the top-left corner, signed pixel sizes, and skew terms.
// PixelH is negative for north-up grids. Proj4 is empty when the grid
// carries no coordinate reference system.
type Grid struct {
	Width  int
	Height int

	OriginX float64
	OriginY float64
	PixelW  float64
	PixelH  float64
	SkewX   float64
	SkewY   float64

	Proj4 string
}

// Validate checks that the grid can index points. Skewed (rotated) grids are
// carried through file round-trips but cannot be indexed, so they are
// rejected here.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("grid has zero size (%dx%d)", g.Width, g.Height)
	}
	if g.PixelW == 0 || g.PixelH == 0 {
		return fmt.Errorf("grid has zero pixel size (%g x %g)", g.PixelW, g.PixelH)
	}
	if g.SkewX != 0 || g.SkewY != 0 {
		return fmt.Errorf("rotated grids are not supported (skew %g, %g)", g.SkewX, g.SkewY)
	}
	return nil
}

// PixelOf maps a world coordinate to the nearest pixel column and row.
// The result may lie outside the grid; callers must check Contains before
// using it as an index.
func (g Grid) PixelOf(x, y float64) (col, row int) {
	col = int(math.Round((x - g.OriginX) / g.PixelW))
	row = int(math.Round((y - g.OriginY) / g.PixelH))
	return col, row
}

// CellIndex maps a world coordinate to the pixel whose footprint contains
// it. This is the sampling rule for resampling; point layers use PixelOf,
// which rounds instead.
func (g Grid) CellIndex(x, y float64) (col, row int) {
	col = int(math.Floor((x - g.OriginX) / g.PixelW))
	row = int(math.Floor((y - g.OriginY) / g.PixelH))
	return col, row
}

// Contains reports whether the pixel coordinate lies inside the grid.
func (g Grid) Contains(col, row int) bool {
	return col >= 0 && col < g.Width && row >= 0 && row < g.Height
}

// CellCenter returns the world coordinate of the center of a pixel.
func (g Grid) CellCenter(col, row int) (x, y float64) {
	x = g.OriginX + (float64(col)+0.5)*g.PixelW
	y = g.OriginY + (float64(row)+0.5)*g.PixelH
	return x, y
}

// Bounds returns the world-coordinate extent of the grid as
// (minX, minY, maxX, maxY).
func (g Grid) Bounds() (minX, minY, maxX, maxY float64) {
	x2 := g.OriginX + float64(g.Width)*g.PixelW
	y2 := g.OriginY + float64(g.Height)*g.PixelH
	return math.Min(g.OriginX, x2), math.Min(g.OriginY, y2),
		math.Max(g.OriginX, x2), math.Max(g.OriginY, y2)
}

// PixelAreaHectares returns the area one cell represents, assuming the grid
// coordinates are degrees. This is a modeling assumption inherited from the
// cost model; SR-aware validation warns when it does not hold.
func (g Grid) PixelAreaHectares() float64 {
	return math.Abs(g.PixelW*g.PixelH) * sqDegreeToSqMeter / m2PerHectare
}

// SR parses the grid's proj4 string. A grid without a CRS returns (nil, nil).
func (g Grid) SR() (*proj.SR, error) {
	if g.Proj4 == "" {
		return nil, nil
	}
	sr, err := proj.Parse(g.Proj4)
	if err != nil {
		return nil, fmt.Errorf("parsing grid projection %q: %w", g.Proj4, err)
	}
	return sr, nil
}

// Geographic reports whether the grid's CRS is unprojected (degrees).
// A grid without a CRS is assumed geographic, matching the area conversion
// assumption above.
func (g Grid) Geographic() (bool, error) {
	sr, err := g.SR()
	if err != nil {
		return false, err
	}
	if sr == nil {
		return true, nil
	}
	return sr.Name == "longlat", nil
}

// SameShape reports whether two grids have identical pixel dimensions.
func (g Grid) SameShape(o Grid) bool {
	return g.Width == o.Width && g.Height == o.Height
}

// alignTol is the relative tolerance used when comparing geotransforms.
const alignTol = 1e-9

// Aligned reports whether two grids describe the same pixel space: same
// shape, same CRS string, and geotransforms equal within a small relative
// tolerance.
func (g Grid) Aligned(o Grid) bool {
	if !g.SameShape(o) || g.Proj4 != o.Proj4 {
		return false
	}
	return closeTo(g.OriginX, o.OriginX) && closeTo(g.OriginY, o.OriginY) &&
		closeTo(g.PixelW, o.PixelW) && closeTo(g.PixelH, o.PixelH) &&
		closeTo(g.SkewX, o.SkewX) && closeTo(g.SkewY, o.SkewY)
}

func closeTo(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= alignTol*scale
}
