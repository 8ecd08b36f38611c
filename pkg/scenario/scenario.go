// Package scenario defines the YAML run configuration: input layer paths,
// output paths, and optional cost-model overrides.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a scenario from a YAML file. Relative paths inside the file
// are resolved against the file's directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	sc.resolvePaths(filepath.Dir(path))

	return &sc, nil
}

// LoadProject loads a scenario from a project directory.
// It looks for scenario.yaml in the given directory.
func LoadProject(projectDir string) (*Scenario, error) {
	return Load(filepath.Join(projectDir, "scenario.yaml"))
}

func (s *Scenario) resolvePaths(dir string) {
	for _, p := range []*string{
		&s.Inputs.Flood, &s.Inputs.Population, &s.Inputs.Cropland,
		&s.Inputs.Amenities, &s.Outputs.Impact, &s.Outputs.Cost,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
