package validation

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/RickytheGuy/FloodImpact/pkg/grid"
	"github.com/RickytheGuy/FloodImpact/pkg/impact"
	"github.com/RickytheGuy/FloodImpact/pkg/raster"
	"github.com/RickytheGuy/FloodImpact/pkg/scenario"
	"github.com/RickytheGuy/FloodImpact/pkg/vector"
	"gonum.org/v1/gonum/floats"
)

// ValidateScenario performs scenario-level validation on a parsed scenario
// document. It checks structural completeness without touching the
// filesystem.
func ValidateScenario(s *scenario.Scenario) *Report {
	r := NewReport()

	validateRequired(s, r)
	validateFormats(s, r)
	validateCostOverrides(s, r)
	validateTimeout(s, r)

	return r
}

func validateRequired(s *scenario.Scenario, r *Report) {
	required := []struct{ path, value string }{
		{"inputs.flood", s.Inputs.Flood},
		{"inputs.population", s.Inputs.Population},
		{"inputs.cropland", s.Inputs.Cropland},
		{"inputs.amenities", s.Inputs.Amenities},
		{"outputs.impact", s.Outputs.Impact},
	}
	for _, f := range required {
		if f.value == "" {
			r.AddError(Result{
				Level:    LevelScenario,
				Message:  fmt.Sprintf("%s is required", f.path),
				Path:     f.path,
				Expected: "a file path",
			})
		}
	}
	if s.Outputs.Cost == "" {
		r.AddInfo(Result{
			Level:   LevelScenario,
			Message: "outputs.cost is not set; the cost raster will be skipped",
			Path:    "outputs.cost",
		})
	}
}

func validateFormats(s *scenario.Scenario, r *Report) {
	rasters := []struct{ path, value string }{
		{"inputs.flood", s.Inputs.Flood},
		{"inputs.population", s.Inputs.Population},
		{"inputs.cropland", s.Inputs.Cropland},
	}
	for _, f := range rasters {
		if f.value == "" {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(f.value)); ext != ".asc" {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("%s: unsupported raster format %q", f.path, ext),
				Path:        f.path,
				ActualValue: f.value,
				Expected:    ".asc",
				Suggestions: []string{"convert the raster to an ESRI ASCII grid"},
			})
		}
	}

	if v := s.Inputs.Amenities; v != "" {
		switch strings.ToLower(filepath.Ext(v)) {
		case ".shp", ".geojson", ".json":
		default:
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("inputs.amenities: unsupported point format %q", filepath.Ext(v)),
				Path:        "inputs.amenities",
				ActualValue: v,
				Expected:    ".shp, .geojson, or .json",
			})
		}
	}
	if v := s.Outputs.Impact; v != "" && strings.ToLower(filepath.Ext(v)) != ".png" {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     fmt.Sprintf("outputs.impact: unsupported format %q", filepath.Ext(v)),
			Path:        "outputs.impact",
			ActualValue: v,
			Expected:    ".png",
		})
	}
	if v := s.Outputs.Cost; v != "" && strings.ToLower(filepath.Ext(v)) != ".asc" {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     fmt.Sprintf("outputs.cost: unsupported format %q", filepath.Ext(v)),
			Path:        "outputs.cost",
			ActualValue: v,
			Expected:    ".asc",
		})
	}
}

func validateCostOverrides(s *scenario.Scenario, r *Report) {
	if s.Costs == nil {
		return
	}
	o := s.Costs

	scalars := []struct {
		path  string
		value *float64
	}{
		{"costs.restoration_per_sqft", o.RestorationPerSqFt},
		{"costs.residential_sqft_per_person", o.ResidentialSqFtPerPerson},
		{"costs.cropland_per_hectare", o.CroplandPerHectare},
	}
	for _, f := range scalars {
		if f.value != nil && *f.value < 0 {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("%s must be non-negative", f.path),
				Path:        f.path,
				ActualValue: *f.value,
				Expected:    ">= 0",
			})
		}
	}

	if o.FloodDiscount != nil && (*o.FloodDiscount < 0 || *o.FloodDiscount > 1) {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     fmt.Sprintf("costs.flood_discount %.4f must be between 0 and 1", *o.FloodDiscount),
			Path:        "costs.flood_discount",
			ActualValue: *o.FloodDiscount,
			Expected:    "0-1",
		})
	}

	for category, sqft := range o.CategorySqFt {
		if sqft < 0 {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("costs.category_sqft.%s must be non-negative", category),
				Path:        fmt.Sprintf("costs.category_sqft.%s", category),
				ActualValue: sqft,
				Expected:    ">= 0",
			})
		}
	}
}

func validateTimeout(s *scenario.Scenario, r *Report) {
	if s.TimeoutSeconds < 0 {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     "timeout_seconds must not be negative",
			Path:        "timeout_seconds",
			ActualValue: s.TimeoutSeconds,
			Expected:    ">= 0",
		})
	}
}

// ValidateFiles checks that every input the scenario names exists on disk,
// without reading any of them.
func ValidateFiles(s *scenario.Scenario) *Report {
	r := NewReport()

	inputs := []struct{ path, value string }{
		{"inputs.flood", s.Inputs.Flood},
		{"inputs.population", s.Inputs.Population},
		{"inputs.cropland", s.Inputs.Cropland},
		{"inputs.amenities", s.Inputs.Amenities},
	}
	for _, f := range inputs {
		if f.value == "" {
			continue
		}
		if _, err := os.Stat(f.value); err != nil {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("%s: %v", f.path, err),
				Path:        f.path,
				ActualValue: f.value,
				Expected:    "an existing file",
			})
		}
	}

	validateShapefileSidecars(s.Inputs.Amenities, r)
	return r
}

func validateShapefileSidecars(path string, r *Report) {
	if strings.ToLower(filepath.Ext(path)) != ".shp" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if _, err := os.Stat(base + ".dbf"); err != nil {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     "amenity shapefile has no .dbf sidecar, so its attributes cannot be read",
			Path:        "inputs.amenities",
			ActualValue: path,
			Suggestions: []string{"copy the .dbf next to the .shp"},
		})
	}
	if _, err := os.Stat(base + ".prj"); err != nil {
		r.AddInfo(Result{
			Level:   LevelScenario,
			Message: "amenity shapefile has no .prj sidecar; coordinates are assumed to match the flood grid",
			Path:    "inputs.amenities",
		})
	}
}

// ValidateInputs performs raster-level checks on the loaded layers and
// spatial checks across them. Value checks are skipped when any layer is
// structurally broken.
func ValidateInputs(in impact.Inputs) *Report {
	r := NewReport()

	layers := []struct {
		name  string
		layer *raster.Layer
	}{
		{"flood", in.Flood},
		{"population", in.Population},
		{"cropland", in.Cropland},
	}
	for _, l := range layers {
		validateLayer(l.name, l.layer, r)
	}
	if !r.Valid {
		return r
	}

	validateFloodValues(in.Flood, r)
	validatePopulationValues(in.Population, r)
	validateCroplandValues(in.Cropland, r)
	validateOverlap("population", in.Population, in.Flood, r)
	validateOverlap("cropland", in.Cropland, in.Flood, r)
	validateAreaAssumption(in.Flood, r)
	validatePoints(in.Flood.Grid, in.Points, r)

	return r
}

func validateLayer(name string, l *raster.Layer, r *Report) {
	if l == nil {
		r.AddError(Result{
			Level:   LevelRaster,
			Message: fmt.Sprintf("%s layer is missing", name),
			Path:    name,
		})
		return
	}
	if err := l.Grid.Validate(); err != nil {
		r.AddError(Result{
			Level:   LevelRaster,
			Message: fmt.Sprintf("%s grid: %v", name, err),
			Path:    name,
		})
	}
	if err := l.CheckShape(); err != nil {
		r.AddError(Result{
			Level:   LevelRaster,
			Message: fmt.Sprintf("%s layer: %v", name, err),
			Path:    name,
		})
	}
}

func validateFloodValues(flood *raster.Layer, r *Report) {
	wet := floats.Count(func(v float64) bool { return v == 1 }, flood.Data.Elements)
	if wet == 0 {
		r.AddWarning(Result{
			Level:   LevelRaster,
			Message: "flood raster has no cells equal to 1; every impact total will be zero",
			Path:    "flood",
		})
	}

	stray := floats.Count(func(v float64) bool {
		return v != 0 && v != 1 && !(flood.HasNoData && v == flood.NoData)
	}, flood.Data.Elements)
	if stray > 0 {
		r.AddWarning(Result{
			Level:       LevelRaster,
			Message:     fmt.Sprintf("flood raster has %d cells that are neither 0 nor 1; they are treated as dry", stray),
			Path:        "flood",
			ActualValue: stray,
			Expected:    "0, 1, or the nodata value",
		})
	}
}

func validatePopulationValues(pop *raster.Layer, r *Report) {
	e := pop.Data.Elements
	if len(e) == 0 {
		return
	}
	if floats.HasNaN(e) {
		r.AddWarning(Result{
			Level:   LevelRaster,
			Message: "population raster contains NaN cells",
			Path:    "population",
		})
	}
	neg := floats.Count(func(v float64) bool {
		return v < 0 && !(pop.HasNoData && v == pop.NoData)
	}, e)
	if neg > 0 {
		r.AddWarning(Result{
			Level:       LevelRaster,
			Message:     fmt.Sprintf("population raster has %d negative cells; counts may be understated", neg),
			Path:        "population",
			ActualValue: neg,
			Expected:    ">= 0",
		})
	}
}

func validateCroplandValues(crop *raster.Layer, r *Report) {
	class2 := floats.Count(func(v float64) bool { return v == 2 }, crop.Data.Elements)
	if class2 == 0 {
		r.AddInfo(Result{
			Level:   LevelRaster,
			Message: "cropland raster has no cells of class 2; farmland losses will be zero",
			Path:    "cropland",
		})
	}
}

func validateOverlap(name string, l, flood *raster.Layer, r *Report) {
	if l.Grid.Aligned(flood.Grid) {
		return
	}
	minX, minY, maxX, maxY := l.Grid.Bounds()
	fMinX, fMinY, fMaxX, fMaxY := flood.Grid.Bounds()
	if minX >= fMaxX || fMinX >= maxX || minY >= fMaxY || fMinY >= maxY {
		r.AddError(Result{
			Level:        LevelSpatial,
			Message:      fmt.Sprintf("%s raster does not overlap the flood extent", name),
			Path:         name,
			ConflictWith: "flood",
			Suggestions:  []string{"check that both rasters share a coordinate system"},
		})
		return
	}
	r.AddInfo(Result{
		Level:        LevelSpatial,
		Message:      fmt.Sprintf("%s grid differs from the flood grid; it will be resampled", name),
		Path:         name,
		ConflictWith: "flood",
	})
}

func validateAreaAssumption(flood *raster.Layer, r *Report) {
	g := flood.Grid
	geographic, err := g.Geographic()
	if err != nil {
		r.AddWarning(Result{
			Level:   LevelSpatial,
			Message: fmt.Sprintf("flood grid projection cannot be parsed: %v", err),
			Path:    "flood",
		})
		return
	}
	if !geographic {
		r.AddWarning(Result{
			Level:       LevelSpatial,
			Message:     "flood grid is projected; hectare and cost figures assume degree coordinates",
			Path:        "flood",
			ActualValue: g.Proj4,
			Expected:    "a geographic (longlat) grid",
			Suggestions: []string{"reproject the inputs to EPSG:4326 before running"},
		})
		return
	}
	if g.Proj4 == "" && looksProjected(g) {
		r.AddWarning(Result{
			Level:    LevelSpatial,
			Message:  "flood grid has no projection and its coordinates do not look like degrees",
			Path:     "flood",
			Expected: "origin within ±180/±90 and sub-degree pixels",
		})
	}
}

func looksProjected(g grid.Grid) bool {
	return math.Abs(g.PixelW) > 1 || math.Abs(g.PixelH) > 1 ||
		math.Abs(g.OriginX) > 360 || math.Abs(g.OriginY) > 90
}

func validatePoints(g grid.Grid, points []vector.Point, r *Report) {
	if len(points) == 0 {
		r.AddInfo(Result{
			Level:   LevelSpatial,
			Message: "amenity layer is empty; infrastructure costs will be zero",
			Path:    "amenities",
		})
		return
	}
	inside := 0
	for _, p := range points {
		if col, row := g.PixelOf(p.X, p.Y); g.Contains(col, row) {
			inside++
		}
	}
	if inside == 0 {
		r.AddWarning(Result{
			Level:        LevelSpatial,
			Message:      fmt.Sprintf("none of the %d amenity points falls inside the flood grid", len(points)),
			Path:         "amenities",
			ConflictWith: "flood",
			Suggestions:  []string{"check the amenity layer's coordinate system"},
		})
	}
}
