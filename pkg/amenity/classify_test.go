package amenity

import (
	"testing"

	"github.com/RickytheGuy/FloodImpact/pkg/cost"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func TestClassifyOneTagPerGroup(t *testing.T) {
	c := NewClassifier(cost.DefaultModel())

	cases := []struct {
		tag  string
		want Category
	}{
		{"restaurant", Food},
		{"school", Education},
		{"bus_station", Transportation},
		{"atm", Financial},
		{"hospital", Healthcare},
		{"cinema", Entertainment},
		{"marketplace", Others},
		{"fire_station", PublicService},
		{"toilets", Facilities},
		{"recycling", WasteManagement},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.tag); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestClassifyCoversWholeVocabulary(t *testing.T) {
	c := NewClassifier(cost.DefaultModel())
	for _, g := range groups {
		for _, tag := range g.tags {
			if got := c.Classify(tag); got != g.category {
				t.Errorf("Classify(%q) = %q, want %q", tag, got, g.category)
			}
		}
	}
}

func TestClassifyUnknownTag(t *testing.T) {
	c := NewClassifier(cost.DefaultModel())
	for _, tag := range []string{"parking_lot", "Restaurant", " restaurant", ""} {
		if got := c.Classify(tag); got != None {
			t.Errorf("Classify(%q) = %q, want None", tag, got)
		}
	}
}

func TestCategoriesOrder(t *testing.T) {
	want := []Category{
		Food, Education, Transportation, Financial, Healthcare,
		Entertainment, Others, PublicService, Facilities, WasteManagement,
	}
	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("Categories() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClassifyLegacy(t *testing.T) {
	c := NewClassifier(cost.DefaultModel())

	cases := []struct {
		name string
		blob string
		want Category
	}{
		{
			name: "amenity among other entries",
			blob: `"addr:city"=>"Springfield","amenity"=>"restaurant","cuisine"=>"thai"`,
			want: Food,
		},
		{
			name: "first match wins",
			blob: `"amenity"=>"school","amenity"=>"restaurant"`,
			want: Education,
		},
		{
			name: "amenity value outside vocabulary",
			blob: `"amenity"=>"spaceport"`,
			want: None,
		},
		{
			name: "no amenity entry",
			blob: `"building"=>"yes","shop"=>"bakery"`,
			want: None,
		},
		{
			name: "empty blob",
			blob: "",
			want: None,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.ClassifyLegacy(tc.blob); got != tc.want {
				t.Errorf("ClassifyLegacy(%q) = %q, want %q", tc.blob, got, tc.want)
			}
		})
	}
}

func TestClassifyLegacyMatchesDirectField(t *testing.T) {
	c := NewClassifier(cost.DefaultModel())
	for _, tag := range []string{"restaurant", "hospital", "recycling", "spaceport"} {
		direct := c.Classify(tag)
		legacy := c.ClassifyLegacy(`"amenity"=>"` + tag + `"`)
		if direct != legacy {
			t.Errorf("tag %q: direct %q, legacy %q", tag, direct, legacy)
		}
	}
}

func TestResolveFieldPriority(t *testing.T) {
	c := NewClassifier(cost.DefaultModel())

	cases := []struct {
		name    string
		attrs   map[string]string
		want    Category
		wantTag string
	}{
		{
			name: "amenity beats other fields",
			attrs: map[string]string{
				"amenity":    "restaurant",
				"other_tags": `"amenity"=>"school"`,
				"fclass":     "hospital",
			},
			want:    Food,
			wantTag: "restaurant",
		},
		{
			name: "other_tags beats fclass",
			attrs: map[string]string{
				"other_tags": `"amenity"=>"school"`,
				"fclass":     "hospital",
			},
			want:    Education,
			wantTag: `"amenity"=>"school"`,
		},
		{
			name:    "fclass alone",
			attrs:   map[string]string{"fclass": "hospital"},
			want:    Healthcare,
			wantTag: "hospital",
		},
		{
			name: "present field decides even when unknown",
			attrs: map[string]string{
				"amenity": "spaceport",
				"fclass":  "hospital",
			},
			want:    None,
			wantTag: "spaceport",
		},
		{
			name:    "no tag fields",
			attrs:   map[string]string{"name": "riverside"},
			want:    None,
			wantTag: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, tag := c.Resolve(tc.attrs)
			if got != tc.want {
				t.Errorf("Resolve() category = %q, want %q", got, tc.want)
			}
			if tag != tc.wantTag {
				t.Errorf("Resolve() tag = %q, want %q", tag, tc.wantTag)
			}
		})
	}
}

func TestCost(t *testing.T) {
	c := NewClassifier(cost.DefaultModel())

	cases := []struct {
		category Category
		want     float64
	}{
		{Food, 3500 * 8.25},
		{Education, 173727 * 8.25},
		{Transportation, 360 * 8.25},
		{Financial, 3400 * 8.25},
		{Healthcare, 300000 * 8.25},
		{Entertainment, 40000 * 8.25},
		{Others, 3000 * 8.25},
		{PublicService, 11000 * 8.25},
		{Facilities, 10 * 8.25},
		{WasteManagement, 4000 * 8.25},
		{None, 0},
	}
	for _, tc := range cases {
		if got := c.Cost(tc.category); !approxEqual(got, tc.want) {
			t.Errorf("Cost(%q) = %v, want %v", tc.category, got, tc.want)
		}
	}
}

func TestCostHonorsModelOverride(t *testing.T) {
	m := cost.DefaultModel()
	m.CategorySqFt[string(Food)] = 100
	c := NewClassifier(m)
	if got := c.Cost(Food); !approxEqual(got, 100*8.25) {
		t.Errorf("Cost(Food) with override = %v, want %v", got, 100*8.25)
	}
}
