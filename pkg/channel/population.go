package channel

import (
	"fmt"

	"github.com/RickytheGuy/FloodImpact/pkg/raster"
	"gonum.org/v1/gonum/floats"
)

// PopulationResult carries the population channel and its scalars.
type PopulationResult struct {
	// Count is the population inside the flood extent, truncated to a
	// whole number of people.
	Count int
	// Channel holds the min-max normalized population bytes.
	Channel *raster.Uint8Plane
	// RawMax is the largest population value inside the flood extent,
	// before normalization. The cost raster uses it to undo the scaling.
	RawMax float64
}

// Population zeroes every population cell outside the flood extent, sums
// what remains, and min-max normalizes the masked plane into a byte channel.
//
// The normalization range is taken over the full masked plane, so the
// minimum is 0 whenever any cell is dry. Cells holding the population
// layer's nodata value count as zero people. A flat plane (max == min)
// produces an all-zero channel instead of dividing by zero.
func Population(flood, pop *raster.Layer) (PopulationResult, error) {
	if !pop.Grid.SameShape(flood.Grid) {
		return PopulationResult{}, fmt.Errorf("population channel: layer is %dx%d but flood extent is %dx%d",
			pop.Grid.Width, pop.Grid.Height, flood.Grid.Width, flood.Grid.Height)
	}

	g := flood.Grid
	if g.Width*g.Height == 0 {
		return PopulationResult{}, fmt.Errorf("population channel: empty flood grid")
	}
	masked := make([]float64, g.Width*g.Height)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if flood.At(row, col) != 1 {
				continue
			}
			v := pop.At(row, col)
			if pop.HasNoData && v == pop.NoData {
				continue
			}
			masked[row*g.Width+col] = v
		}
	}

	min := floats.Min(masked)
	max := floats.Max(masked)
	res := PopulationResult{
		Count:   int(floats.Sum(masked)),
		Channel: raster.NewUint8Plane(g.Width, g.Height),
		RawMax:  max,
	}
	if max > min {
		scale := 255 / (max - min)
		for i, v := range masked {
			res.Channel.Pix[i] = quantize((v - min) * scale)
		}
	}
	return res, nil
}
