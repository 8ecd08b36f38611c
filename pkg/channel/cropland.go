package channel

import (
	"fmt"
	"math"

	"github.com/RickytheGuy/FloodImpact/pkg/raster"
)

// croplandClass marks cropland cells in the GFSAD classification scheme.
const croplandClass = 2

// CroplandResult carries the cropland channel and the flooded area.
type CroplandResult struct {
	// Hectares is the flooded cropland area, rounded to two decimals.
	Hectares float64
	// Channel is 255 on flooded cropland cells and 0 elsewhere.
	Channel *raster.Uint8Plane
}

// Cropland intersects the flood extent with cropland cells and converts the
// overlapping cell count to hectares using the grid's pixel area.
func Cropland(flood, crop *raster.Layer) (CroplandResult, error) {
	if !crop.Grid.SameShape(flood.Grid) {
		return CroplandResult{}, fmt.Errorf("cropland channel: layer is %dx%d but flood extent is %dx%d",
			crop.Grid.Width, crop.Grid.Height, flood.Grid.Width, flood.Grid.Height)
	}

	g := flood.Grid
	res := CroplandResult{Channel: raster.NewUint8Plane(g.Width, g.Height)}
	count := 0
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if flood.At(row, col) == 1 && crop.At(row, col) == croplandClass {
				res.Channel.Set(255, row, col)
				count++
			}
		}
	}
	res.Hectares = math.Round(float64(count)*g.PixelAreaHectares()*100) / 100
	return res, nil
}
