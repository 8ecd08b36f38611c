package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/RickytheGuy/FloodImpact/pkg/scenario"
	"github.com/RickytheGuy/FloodImpact/pkg/synth"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "floodimpact",
		Short: "Flood impact compositing and damage estimation",
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(impactCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(synthCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func impactCmd() *cobra.Command {
	var (
		jsonOut bool
		in      scenario.Inputs
		out     scenario.Outputs
		timeout float64
	)

	cmd := &cobra.Command{
		Use:   "impact [project-path]",
		Short: "Composite the impact raster and estimate flood losses",
		Long: `Composite the impact raster and estimate flood losses.

Takes either a project path (a scenario file or a directory holding
scenario.yaml) or the four input layers as flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				s, err := loadScenario(args[0])
				if err != nil {
					return err
				}
				return runImpact(s, jsonOut)
			}
			s := &scenario.Scenario{
				Name:           layerName(in.Flood),
				Inputs:         in,
				Outputs:        out,
				TimeoutSeconds: timeout,
			}
			return runImpact(s, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the aggregate report as JSON")
	cmd.Flags().StringVar(&in.Flood, "flood", "", "flood-extent raster (.asc), 1 = flooded")
	cmd.Flags().StringVar(&in.Population, "population", "", "population-count raster (.asc)")
	cmd.Flags().StringVar(&in.Cropland, "cropland", "", "cropland-classification raster (.asc), 2 = cropland")
	cmd.Flags().StringVar(&in.Amenities, "amenities", "", "amenity point layer (.geojson or .shp)")
	cmd.Flags().StringVar(&out.Impact, "out", "impact.png", "impact raster output path")
	cmd.Flags().StringVar(&out.Cost, "cost-out", "", "per-pixel cost raster output path (optional)")
	cmd.Flags().Float64Var(&timeout, "timeout", 0, "per-channel timeout in seconds (0 = none)")
	return cmd
}

// layerName derives a scenario name for flag-driven runs from the flood
// raster's file name.
func layerName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a scenario and its input layers without compositing",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func classifyCmd() *cobra.Command {
	var floodPath string

	cmd := &cobra.Command{
		Use:   "classify [amenity-layer]",
		Short: "Classify an amenity layer and print its category table",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runClassify(args[0], floodPath)
		},
	}
	cmd.Flags().StringVar(&floodPath, "flood", "", "flood raster; tabulate only points on flooded pixels")
	return cmd
}

func synthCmd() *cobra.Command {
	var (
		small     bool
		seed      int64
		size      int
		amenities int
	)

	cmd := &cobra.Command{
		Use:   "synth [output-dir]",
		Short: "Generate a synthetic dataset with a ready-to-run scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := synth.DefaultConfig()
			if small {
				cfg = synth.SmallConfig()
			}
			if seed != 0 {
				cfg.Seed = seed
			}
			if size > 0 {
				cfg.Width = size
				cfg.Height = size
			}
			if amenities >= 0 {
				cfg.Amenities = amenities
			}
			return runSynth(args[0], cfg)
		},
	}
	cmd.Flags().BoolVar(&small, "small", false, "generate the small test dataset")
	cmd.Flags().Int64Var(&seed, "seed", 0, "noise seed (0 picks a random one)")
	cmd.Flags().IntVar(&size, "size", 0, "override the grid size (pixels per side)")
	cmd.Flags().IntVar(&amenities, "amenities", -1, "override the number of amenity points")
	return cmd
}
