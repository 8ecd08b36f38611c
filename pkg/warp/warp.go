// Package warp aligns secondary rasters (population, cropland) to the flood
// reference grid with nearest-neighbor sampling, transforming coordinates
// when the two grids declare different reference systems. It stands in for
// the warping collaborator the impact pipeline delegates alignment to.
package warp

import (
	"fmt"

	"github.com/RickytheGuy/FloodImpact/pkg/grid"
	"github.com/RickytheGuy/FloodImpact/pkg/raster"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// Regrid resamples src onto dst. Each destination cell center is projected
// into the source grid's coordinate space and the containing source cell is
// sampled; destination cells outside the source extent are filled with 0,
// matching a zero-initialized warp target.
//
// Coordinates are transformed only when both grids carry a CRS and the
// strings differ; a grid without a CRS is taken to share the other's
// coordinate space.
func Regrid(src *raster.Layer, dst grid.Grid) (*raster.Layer, error) {
	if err := src.CheckShape(); err != nil {
		return nil, fmt.Errorf("regrid source: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return nil, fmt.Errorf("regrid target: %w", err)
	}

	out := raster.NewLayer(dst)
	out.NoData = src.NoData
	out.HasNoData = src.HasNoData

	if src.Grid.Aligned(dst) {
		copy(out.Data.Elements, src.Data.Elements)
		return out, nil
	}

	trans, err := transformer(dst, src.Grid)
	if err != nil {
		return nil, err
	}

	for row := 0; row < dst.Height; row++ {
		for col := 0; col < dst.Width; col++ {
			x, y := dst.CellCenter(col, row)
			if trans != nil {
				p, err := geom.Point{X: x, Y: y}.Transform(trans)
				if err != nil {
					return nil, fmt.Errorf("transforming cell (%d,%d): %w", col, row, err)
				}
				pt := p.(geom.Point)
				x, y = pt.X, pt.Y
			}
			scol, srow := src.Grid.CellIndex(x, y)
			if !src.Grid.Contains(scol, srow) {
				continue
			}
			out.Set(src.At(srow, scol), row, col)
		}
	}
	return out, nil
}

// transformer builds the destination-to-source coordinate transform, or nil
// when no transformation is needed.
func transformer(dst, src grid.Grid) (proj.Transformer, error) {
	if dst.Proj4 == "" || src.Proj4 == "" || dst.Proj4 == src.Proj4 {
		return nil, nil
	}
	dstSR, err := dst.SR()
	if err != nil {
		return nil, err
	}
	srcSR, err := src.SR()
	if err != nil {
		return nil, err
	}
	trans, err := dstSR.NewTransform(srcSR)
	if err != nil {
		return nil, fmt.Errorf("building transform %q -> %q: %w", dst.Proj4, src.Proj4, err)
	}
	return trans, nil
}
