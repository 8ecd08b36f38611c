package scenario

import (
	"fmt"
	"time"

	"github.com/RickytheGuy/FloodImpact/pkg/cost"
)

// Scenario is the top-level run configuration.
type Scenario struct {
	Name           string         `yaml:"name" json:"name"`
	Inputs         Inputs         `yaml:"inputs" json:"inputs"`
	Outputs        Outputs        `yaml:"outputs" json:"outputs"`
	Costs          *CostOverrides `yaml:"costs,omitempty" json:"costs,omitempty"`
	TimeoutSeconds float64        `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// Inputs names the four source layers.
type Inputs struct {
	Flood      string `yaml:"flood" json:"flood"`
	Population string `yaml:"population" json:"population"`
	Cropland   string `yaml:"cropland" json:"cropland"`
	Amenities  string `yaml:"amenities" json:"amenities"`
}

// Outputs names the files to write. Cost is optional; leaving it empty
// skips the cost raster.
type Outputs struct {
	Impact string `yaml:"impact" json:"impact"`
	Cost   string `yaml:"cost,omitempty" json:"cost,omitempty"`
}

// CostOverrides adjusts parts of the default cost model. Nil fields keep
// their defaults; category entries merge over the default table.
type CostOverrides struct {
	RestorationPerSqFt       *float64           `yaml:"restoration_per_sqft,omitempty" json:"restoration_per_sqft,omitempty"`
	ResidentialSqFtPerPerson *float64           `yaml:"residential_sqft_per_person,omitempty" json:"residential_sqft_per_person,omitempty"`
	CroplandPerHectare       *float64           `yaml:"cropland_per_hectare,omitempty" json:"cropland_per_hectare,omitempty"`
	FloodDiscount            *float64           `yaml:"flood_discount,omitempty" json:"flood_discount,omitempty"`
	CategorySqFt             map[string]float64 `yaml:"category_sqft,omitempty" json:"category_sqft,omitempty"`
}

// Validate checks that the scenario names every required file.
func (s *Scenario) Validate() error {
	switch {
	case s.Inputs.Flood == "":
		return fmt.Errorf("scenario: inputs.flood is required")
	case s.Inputs.Population == "":
		return fmt.Errorf("scenario: inputs.population is required")
	case s.Inputs.Cropland == "":
		return fmt.Errorf("scenario: inputs.cropland is required")
	case s.Inputs.Amenities == "":
		return fmt.Errorf("scenario: inputs.amenities is required")
	case s.Outputs.Impact == "":
		return fmt.Errorf("scenario: outputs.impact is required")
	case s.TimeoutSeconds < 0:
		return fmt.Errorf("scenario: timeout_seconds must not be negative")
	}
	return nil
}

// Model builds the cost model with this scenario's overrides applied.
func (s *Scenario) Model() cost.Model {
	m := cost.DefaultModel()
	if s.Costs == nil {
		return m
	}
	o := s.Costs
	if o.RestorationPerSqFt != nil {
		m.RestorationPerSqFt = *o.RestorationPerSqFt
	}
	if o.ResidentialSqFtPerPerson != nil {
		m.ResidentialSqFtPerPerson = *o.ResidentialSqFtPerPerson
	}
	if o.CroplandPerHectare != nil {
		m.CroplandPerHectare = *o.CroplandPerHectare
	}
	if o.FloodDiscount != nil {
		m.FloodDiscount = *o.FloodDiscount
	}
	for category, sqft := range o.CategorySqFt {
		m.CategorySqFt[category] = sqft
	}
	return m
}

// Timeout returns the per-channel budget; zero means no limit.
func (s *Scenario) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds * float64(time.Second))
}
