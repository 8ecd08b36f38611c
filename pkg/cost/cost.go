// Package cost defines the dollar model for flood impact estimation: fixed
// per-category repair figures for amenities plus the residential and
// cropland scalars. A Model is built once at startup and passed by value;
// nothing mutates it afterwards.
package cost

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Model maps impact quantities to dollars.
type Model struct {
	RestorationPerSqFt       float64
	ResidentialSqFtPerPerson float64
	CroplandPerHectare       float64
	FloodDiscount            float64

	// CategorySqFt is the repair footprint per amenity category. Treated as
	// read-only after construction.
	CategorySqFt map[string]float64
}

// DefaultModel returns the model built from the baseline constants.
func DefaultModel() Model {
	return Model{
		RestorationPerSqFt:       RestorationPerSqFt,
		ResidentialSqFtPerPerson: ResidentialSqFtPerPerson,
		CroplandPerHectare:       CroplandPerHectare,
		FloodDiscount:            FloodDiscount,
		CategorySqFt: map[string]float64{
			"food":             FoodSqFt,
			"education":        EducationSqFt,
			"transportation":   TransportationSqFt,
			"financial":        FinancialSqFt,
			"healthcare":       HealthcareSqFt,
			"entertainment":    EntertainmentSqFt,
			"others":           OthersSqFt,
			"public_service":   PublicServiceSqFt,
			"facilities":       FacilitiesSqFt,
			"waste_management": WasteManagementSqFt,
		},
	}
}

// CategoryCost returns the repair cost for an amenity category. Unknown or
// empty categories cost nothing.
func (m Model) CategoryCost(category string) float64 {
	sqft, ok := m.CategorySqFt[category]
	if !ok {
		return 0
	}
	return sqft * m.RestorationPerSqFt
}

// PerPersonResidential returns the residential repair cost for one person.
func (m Model) PerPersonResidential() float64 {
	return m.ResidentialSqFtPerPerson * m.RestorationPerSqFt
}

// PerHectareCropland returns the flood-discounted loss for one hectare of
// cropland.
func (m Model) PerHectareCropland() float64 {
	return m.CroplandPerHectare * (1 - m.FloodDiscount)
}

// ResidentialCost returns the repair cost for a population count.
func (m Model) ResidentialCost(people int) float64 {
	return float64(people) * m.PerPersonResidential()
}

// CroplandCost returns the loss for flooded cropland hectares.
func (m Model) CroplandCost(hectares float64) float64 {
	return hectares * m.PerHectareCropland()
}

// FormatMoney renders a dollar amount with thousands separators. The amount
// is rounded to cents first and the cents are then dropped, so 999.999
// becomes "$1,000" while 1234567.89 becomes "$1,234,567".
func FormatMoney(amount float64) string {
	cents := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, _, _ := strings.Cut(cents, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "$" + whole
	}
	return "$" + humanize.Comma(n)
}
