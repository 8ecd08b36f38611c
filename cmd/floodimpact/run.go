package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/RickytheGuy/FloodImpact/pkg/amenity"
	"github.com/RickytheGuy/FloodImpact/pkg/channel"
	"github.com/RickytheGuy/FloodImpact/pkg/cost"
	"github.com/RickytheGuy/FloodImpact/pkg/impact"
	"github.com/RickytheGuy/FloodImpact/pkg/raster"
	"github.com/RickytheGuy/FloodImpact/pkg/scenario"
	"github.com/RickytheGuy/FloodImpact/pkg/synth"
	"github.com/RickytheGuy/FloodImpact/pkg/validation"
	"github.com/RickytheGuy/FloodImpact/pkg/vector"
	"gonum.org/v1/gonum/floats"
)

// loadScenario accepts either a project directory holding scenario.yaml or a
// direct path to a scenario file.
func loadScenario(path string) (*scenario.Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	if info.IsDir() {
		return scenario.LoadProject(path)
	}
	return scenario.Load(path)
}

func runValidate(path string) error {
	s, err := loadScenario(path)
	if err != nil {
		return err
	}
	report := validation.ValidateScenario(s)
	report.Merge(validation.ValidateFiles(s))

	// Layer checks only make sense once the files themselves load.
	if report.Valid {
		in, err := impact.LoadInputs(s)
		if err != nil {
			return err
		}
		report.Merge(validation.ValidateInputs(in))
	}

	printValidationReport(report)
	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runImpact(s *scenario.Scenario, jsonOut bool) error {
	report := validation.ValidateScenario(s)
	report.Merge(validation.ValidateFiles(s))
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("scenario has validation errors; fix before running")
	}

	in, err := impact.LoadInputs(s)
	if err != nil {
		return err
	}
	inputReport := validation.ValidateInputs(in)
	if !inputReport.Valid {
		printValidationReport(inputReport)
		return fmt.Errorf("input layers failed validation")
	}
	for _, w := range inputReport.Warnings {
		slog.Warn(w.Message, "path", w.Path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	res, err := impact.Composite(ctx, in, impact.Options{
		Timeout:        s.Timeout(),
		WithCostRaster: s.Outputs.Cost != "",
	})
	if err != nil {
		return err
	}

	if err := writeOutputs(s, res); err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"scenario":  s.Name,
			"aggregate": res.Aggregate,
		})
	}
	printImpactReport(res.Aggregate)
	return nil
}

func writeOutputs(s *scenario.Scenario, res *impact.Result) error {
	if err := os.MkdirAll(filepath.Dir(s.Outputs.Impact), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := raster.WriteImpactPNG(s.Outputs.Impact, res.Impact); err != nil {
		return err
	}
	slog.Info("impact raster written", "path", s.Outputs.Impact)

	if s.Outputs.Cost == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Outputs.Cost), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := raster.WriteASC(s.Outputs.Cost, res.Cost); err != nil {
		return err
	}
	slog.Info("cost raster written", "path", s.Outputs.Cost)
	return nil
}

func runClassify(path, floodPath string) error {
	points, err := vector.ReadPoints(path)
	if err != nil {
		return fmt.Errorf("loading amenity layer: %w", err)
	}
	classifier := amenity.NewClassifier(cost.DefaultModel())

	counts := make(map[amenity.Category]int)
	tabulated := len(points.Points)
	if floodPath != "" {
		flood, err := raster.ReadASC(floodPath)
		if err != nil {
			return fmt.Errorf("loading flood raster: %w", err)
		}
		if err := points.Reproject(flood.Grid.Proj4); err != nil {
			return err
		}
		res := channel.Amenities(flood, points.Points, classifier)
		counts = res.Counts
		tabulated = len(res.Points)
	} else {
		for _, p := range points.Points {
			if cat, _ := classifier.Resolve(p.Attrs); cat != amenity.None {
				counts[cat]++
			}
		}
	}

	if len(counts) == 0 && floodPath == "" {
		fmt.Println("  (no categorized amenities)")
	} else {
		printCategoryTable(counts)
	}

	categorized := 0
	for _, n := range counts {
		categorized += n
	}
	if floodPath != "" {
		fmt.Printf("\n%d of %d points on flooded pixels, %d uncategorized\n",
			tabulated, len(points.Points), tabulated-categorized)
	} else {
		fmt.Printf("\n%d points, %d uncategorized\n", tabulated, tabulated-categorized)
	}
	return nil
}

func runSynth(dir string, cfg synth.Config) error {
	d := synth.Generate(cfg)
	if err := synth.WriteProject(dir, d); err != nil {
		return err
	}

	wet := floats.Count(func(v float64) bool { return v == 1 }, d.Flood.Data.Elements)
	slog.Info("dataset generated",
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"wet_cells", wet,
		"points", len(d.Points))
	fmt.Printf("Wrote synthetic dataset to %s\n", dir)
	return nil
}
