package impact

import (
	"fmt"
	"log/slog"

	"github.com/RickytheGuy/FloodImpact/pkg/raster"
	"github.com/RickytheGuy/FloodImpact/pkg/scenario"
	"github.com/RickytheGuy/FloodImpact/pkg/vector"
)

// LoadInputs reads the four layers a scenario names and reprojects the
// amenity points into the flood grid's coordinate frame.
func LoadInputs(s *scenario.Scenario) (Inputs, error) {
	flood, err := raster.ReadASC(s.Inputs.Flood)
	if err != nil {
		return Inputs{}, fmt.Errorf("loading flood raster: %w", err)
	}
	pop, err := raster.ReadASC(s.Inputs.Population)
	if err != nil {
		return Inputs{}, fmt.Errorf("loading population raster: %w", err)
	}
	crop, err := raster.ReadASC(s.Inputs.Cropland)
	if err != nil {
		return Inputs{}, fmt.Errorf("loading cropland raster: %w", err)
	}
	points, err := vector.ReadPoints(s.Inputs.Amenities)
	if err != nil {
		return Inputs{}, fmt.Errorf("loading amenity layer: %w", err)
	}
	if err := points.Reproject(flood.Grid.Proj4); err != nil {
		return Inputs{}, err
	}
	slog.Debug("inputs loaded",
		"grid", fmt.Sprintf("%dx%d", flood.Grid.Width, flood.Grid.Height),
		"points", len(points.Points))

	return Inputs{
		Flood:      flood,
		Population: pop,
		Cropland:   crop,
		Points:     points.Points,
		Model:      s.Model(),
	}, nil
}
