// Package raster holds the in-memory raster types: float layers read from
// disk, the unsigned 8-bit channel planes the channel computers produce, and
// the 4-band impact composite.
package raster

import (
	"fmt"

	"github.com/RickytheGuy/FloodImpact/pkg/grid"
	"github.com/ctessum/sparse"
)

// Band indices of the impact composite.
const (
	BandPopulation = 0
	BandCropland   = 1
	BandAmenity    = 2
	BandAlpha      = 3
)

// Layer is a single-band float raster aligned to a grid. Data is row-major
// with shape [Height, Width]; row 0 is the northernmost row for north-up
// grids, matching the file order of the ASCII codec.
type Layer struct {
	Grid grid.Grid
	Data *sparse.DenseArray

	// NoData is the sentinel value for cells without data, carried through
	// from the source file. Cells still hold the sentinel value itself.
	NoData    float64
	HasNoData bool
}

// NewLayer allocates a zero-filled layer over a grid.
func NewLayer(g grid.Grid) *Layer {
	return &Layer{Grid: g, Data: sparse.ZerosDense(g.Height, g.Width)}
}

// At returns the value at (row, col).
func (l *Layer) At(row, col int) float64 {
	return l.Data.Get(row, col)
}

// Set stores a value at (row, col).
func (l *Layer) Set(v float64, row, col int) {
	l.Data.Set(v, row, col)
}

// CheckShape returns an error unless the layer's data matches its grid.
func (l *Layer) CheckShape() error {
	if len(l.Data.Shape) != 2 {
		return fmt.Errorf("layer data has %d dimensions, want 2", len(l.Data.Shape))
	}
	if l.Data.Shape[0] != l.Grid.Height || l.Data.Shape[1] != l.Grid.Width {
		return fmt.Errorf("layer data is %dx%d but grid is %dx%d",
			l.Data.Shape[1], l.Data.Shape[0], l.Grid.Width, l.Grid.Height)
	}
	return nil
}

// Uint8Plane is one [0,255] channel over a grid, row-major.
type Uint8Plane struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewUint8Plane allocates a zero-filled plane.
func NewUint8Plane(width, height int) *Uint8Plane {
	return &Uint8Plane{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At returns the value at (row, col).
func (p *Uint8Plane) At(row, col int) uint8 {
	return p.Pix[row*p.Width+col]
}

// Set stores a value at (row, col).
func (p *Uint8Plane) Set(v uint8, row, col int) {
	p.Pix[row*p.Width+col] = v
}

// Impact is the 4-band composite: population, cropland, amenity cost, and
// alpha, all over one grid. Alpha is 255 exactly where at least one of the
// other three bands is nonzero.
type Impact struct {
	Grid  grid.Grid
	Bands [4]*Uint8Plane
}

// NewImpact allocates a zero-filled composite over a grid.
func NewImpact(g grid.Grid) *Impact {
	im := &Impact{Grid: g}
	for i := range im.Bands {
		im.Bands[i] = NewUint8Plane(g.Width, g.Height)
	}
	return im
}
