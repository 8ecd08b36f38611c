// Package synth generates self-consistent synthetic input datasets: a flood
// extent carved out of layered simplex noise, population and cropland
// rasters over the same terrain, and an amenity point layer with OSM-style
// tags. The output is small enough to commit, which keeps demos and
// end-to-end runs working without shipping real rasters.
package synth

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/RickytheGuy/FloodImpact/pkg/grid"
	"github.com/RickytheGuy/FloodImpact/pkg/raster"
	"github.com/RickytheGuy/FloodImpact/pkg/scenario"
	"github.com/RickytheGuy/FloodImpact/pkg/vector"
	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"
)

// Config holds dataset generation parameters.
type Config struct {
	Width  int
	Height int
	// Seed drives every noise layer and placement decision; 0 picks a
	// random seed.
	Seed int64

	// OriginX, OriginY locate the top-left corner in degrees.
	OriginX   float64
	OriginY   float64
	PixelSize float64

	// FloodLevel is the terrain height below which a cell floods.
	FloodLevel float64
	// MaxDensity is the population of the densest cell.
	MaxDensity float64
	// CropLevel is the suitability threshold for cropland cells.
	CropLevel float64
	// Amenities is the number of tagged points to place.
	Amenities int
}

// DefaultConfig returns a medium-sized river basin.
func DefaultConfig() Config {
	return Config{
		Width:      256,
		Height:     256,
		Seed:       0,
		OriginX:    -76.5,
		OriginY:    -5.5,
		PixelSize:  0.001,
		FloodLevel: 0.35,
		MaxDensity: 120,
		CropLevel:  0.55,
		Amenities:  400,
	}
}

// SmallConfig returns a tiny dataset for rapid iteration.
func SmallConfig() Config {
	return Config{
		Width:      32,
		Height:     32,
		Seed:       42,
		OriginX:    -76.5,
		OriginY:    -5.5,
		PixelSize:  0.01,
		FloodLevel: 0.4,
		MaxDensity: 50,
		CropLevel:  0.5,
		Amenities:  30,
	}
}

// Dataset is one generated set of aligned input layers.
type Dataset struct {
	Flood      *raster.Layer
	Population *raster.Layer
	Cropland   *raster.Layer
	Points     []vector.Point
}

// Generate creates a complete dataset from a config.
func Generate(cfg Config) *Dataset {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Independent noise layers for terrain, settlement, and soil.
	elevNoise := opensimplex.NewNormalized(seed)
	popNoise := opensimplex.NewNormalized(seed + 1)
	cropNoise := opensimplex.NewNormalized(seed + 2)

	g := grid.Grid{
		Width:   cfg.Width,
		Height:  cfg.Height,
		OriginX: cfg.OriginX,
		OriginY: cfg.OriginY,
		PixelW:  cfg.PixelSize,
		PixelH:  -cfg.PixelSize,
	}
	flood := raster.NewLayer(g)
	pop := raster.NewLayer(g)
	crop := raster.NewLayer(g)

	for row := 0; row < cfg.Height; row++ {
		for col := 0; col < cfg.Width; col++ {
			x, y := float64(col), float64(row)

			// Low-lying terrain floods.
			elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
			if elev < cfg.FloodLevel {
				flood.Set(1, row, col)
			}

			// Settlement clusters where the density noise peaks, thinned
			// slightly on high ground.
			p := octaveNoise(popNoise, x, y, 3, 0.06, 0.5)
			density := p * p * cfg.MaxDensity * (1 - 0.4*elev)
			if density >= 0.5 {
				pop.Set(math.Round(density*10)/10, row, col)
			}

			// Cropland takes the fertile, lightly settled cells; marginal
			// cells become other vegetation.
			c := octaveNoise(cropNoise, x, y, 3, 0.05, 0.5)
			switch {
			case c > cfg.CropLevel && density < 5:
				crop.Set(2, row, col)
			case c > cfg.CropLevel*0.6:
				crop.Set(1, row, col)
			}
		}
	}

	return &Dataset{
		Flood:      flood,
		Population: pop,
		Cropland:   crop,
		Points:     placeAmenities(g, pop, cfg.Amenities, seed),
	}
}

// amenityTags is the placement vocabulary: a few tags from every repair
// category, plus one that classifies into no category.
var amenityTags = []string{
	"restaurant", "cafe", "fast_food",
	"school", "university",
	"fuel", "bus_station", "parking",
	"bank", "atm",
	"hospital", "pharmacy", "clinic",
	"cinema", "theatre",
	"marketplace", "place_of_worship",
	"police", "townhall", "fire_station",
	"toilets", "shelter",
	"waste_disposal", "recycling",
	"viewpoint",
}

// placeAmenities scatters tagged points over settled cells, jittered inside
// each cell so neighbors do not stack.
func placeAmenities(g grid.Grid, pop *raster.Layer, n int, seed int64) []vector.Point {
	rng := rand.New(rand.NewSource(seed + 100))

	var cells [][2]int
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if pop.At(row, col) > 0 {
				cells = append(cells, [2]int{col, row})
			}
		}
	}
	if len(cells) == 0 || n <= 0 {
		return nil
	}

	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	points := make([]vector.Point, 0, n)
	for i := 0; i < n; i++ {
		cell := cells[i%len(cells)]
		x := g.OriginX + (float64(cell[0])+0.6*rng.Float64()-0.3)*g.PixelW
		y := g.OriginY + (float64(cell[1])+0.6*rng.Float64()-0.3)*g.PixelH
		points = append(points, vector.Point{X: x, Y: y, Attrs: tagAttrs(rng)})
	}
	return points
}

// tagAttrs picks a tag and one of the attribute shapes seen in real
// extracts: a clean amenity column, a legacy hstore blob, a generic fclass
// column, or no usable tag at all.
func tagAttrs(rng *rand.Rand) map[string]string {
	tag := amenityTags[rng.Intn(len(amenityTags))]
	switch r := rng.Float64(); {
	case r < 0.70:
		return map[string]string{"amenity": tag}
	case r < 0.85:
		return map[string]string{"other_tags": fmt.Sprintf("%q=>%q", "amenity", tag)}
	case r < 0.95:
		return map[string]string{"fclass": tag}
	default:
		return map[string]string{"name": "unnamed"}
	}
}

// WriteProject writes the dataset and a ready-to-run scenario file into dir.
func WriteProject(dir string, d *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	rasters := []struct {
		name  string
		layer *raster.Layer
	}{
		{"flood.asc", d.Flood},
		{"population.asc", d.Population},
		{"cropland.asc", d.Cropland},
	}
	for _, f := range rasters {
		if err := raster.WriteASC(filepath.Join(dir, f.name), f.layer); err != nil {
			return err
		}
	}
	if err := writeGeoJSON(filepath.Join(dir, "amenities.geojson"), d.Points); err != nil {
		return err
	}

	s := scenario.Scenario{
		Name: "synthetic flood",
		Inputs: scenario.Inputs{
			Flood:      "flood.asc",
			Population: "population.asc",
			Cropland:   "cropland.asc",
			Amenities:  "amenities.geojson",
		},
		Outputs: scenario.Outputs{Impact: "impact.png", Cost: "cost.asc"},
	}
	buf, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scenario.yaml"), buf, 0o644); err != nil {
		return fmt.Errorf("writing scenario: %w", err)
	}
	return nil
}

func writeGeoJSON(path string, points []vector.Point) error {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(orb.Point{p.X, p.Y})
		for k, v := range p.Attrs {
			f.Properties[k] = v
		}
		fc.Append(f)
	}
	buf, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encoding amenity layer: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing amenity layer: %w", err)
	}
	return nil
}

// octaveNoise layers multiple noise frequencies into fractal terrain.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
