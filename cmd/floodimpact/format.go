package main

import (
	"fmt"
	"sort"

	"github.com/RickytheGuy/FloodImpact/pkg/amenity"
	"github.com/RickytheGuy/FloodImpact/pkg/cost"
	"github.com/RickytheGuy/FloodImpact/pkg/impact"
	"github.com/RickytheGuy/FloodImpact/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Printf("    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Printf("    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Path != "" {
				fmt.Printf("    -> %s = %v\n", w.Path, w.ActualValue)
			}
			if w.Expected != "" {
				fmt.Printf("    expected: %s\n", w.Expected)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printImpactReport(agg impact.Aggregate) {
	fmt.Println("The amenity group table is:")
	printCategoryTable(agg.CategoryCounts)

	fmt.Printf("\nArea of agriculture in the flood extent is %v hectares\n", agg.CroplandHectares)
	fmt.Printf("\nEstimated population in the flood extent is %d\n", agg.PopulationCount)
	fmt.Printf("\nThe estimated infrastructure (excluding residences) repair cost is %s\n",
		cost.FormatMoney(agg.InfrastructureCost))
	fmt.Printf("\nThe estimated residential repair cost is %s\n", cost.FormatMoney(agg.ResidentialCost))
	fmt.Printf("\nThe estimated loss of farmlands is %s\n", cost.FormatMoney(agg.CroplandCost))
	fmt.Printf("\nTotal flood impact losses: %s\n", cost.FormatMoney(agg.TotalCost))
}

// printCategoryTable lists categories by descending count, with the
// classifier's group order breaking ties.
func printCategoryTable(counts map[amenity.Category]int) {
	if len(counts) == 0 {
		fmt.Println("  (no amenities in the flood extent)")
		return
	}

	cats := make([]amenity.Category, 0, len(counts))
	for _, c := range amenity.Categories() {
		if _, ok := counts[c]; ok {
			cats = append(cats, c)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return counts[cats[i]] > counts[cats[j]]
	})

	fmt.Printf("%-18s %9s\n", "Category", "Number of")
	for _, c := range cats {
		fmt.Printf("%-18s %9d\n", string(c), counts[c])
	}
}
