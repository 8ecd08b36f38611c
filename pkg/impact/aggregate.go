package impact

import (
	"github.com/RickytheGuy/FloodImpact/pkg/amenity"
	"github.com/RickytheGuy/FloodImpact/pkg/channel"
	"github.com/RickytheGuy/FloodImpact/pkg/cost"
)

// Aggregate is the scalar rollup of one composite.
type Aggregate struct {
	// PopulationCount is the estimated number of people inside the flood
	// extent.
	PopulationCount int `json:"population_count"`
	// CroplandHectares is the flooded cropland area, rounded to two
	// decimals.
	CroplandHectares float64 `json:"cropland_hectares"`
	// InfrastructureCost is the raw sum of retained amenity point costs.
	// It is independent of the byte-channel scaling.
	InfrastructureCost float64 `json:"infrastructure_cost"`
	ResidentialCost    float64 `json:"residential_cost"`
	CroplandCost       float64 `json:"cropland_cost"`
	TotalCost          float64 `json:"total_cost"`
	// CategoryCounts tabulates retained amenity points per category;
	// uncategorized points are not listed.
	CategoryCounts map[amenity.Category]int `json:"category_counts,omitempty"`
}

func deriveAggregate(model cost.Model, pop channel.PopulationResult, crop channel.CroplandResult, amen channel.AmenityResult) Aggregate {
	agg := Aggregate{
		PopulationCount:  pop.Count,
		CroplandHectares: crop.Hectares,
		CategoryCounts:   amen.Counts,
	}
	for _, p := range amen.Points {
		agg.InfrastructureCost += p.Cost
	}
	agg.ResidentialCost = model.ResidentialCost(pop.Count)
	agg.CroplandCost = model.CroplandCost(crop.Hectares)
	agg.TotalCost = agg.InfrastructureCost + agg.ResidentialCost + agg.CroplandCost
	return agg
}
