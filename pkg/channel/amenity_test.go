package channel

import (
	"testing"

	"github.com/RickytheGuy/FloodImpact/pkg/amenity"
	"github.com/RickytheGuy/FloodImpact/pkg/cost"
	"github.com/RickytheGuy/FloodImpact/pkg/vector"
)

// at returns world coordinates landing in pixel (col, row) of testGrid,
// offset from the cell corner so the rounding indexer is unambiguous.
func at(col, row int) (x, y float64) {
	g := testGrid(10, 8)
	return g.OriginX + (float64(col)+0.2)*g.PixelW, g.OriginY + (float64(row)+0.2)*g.PixelH
}

func TestAmenitiesRetainsFloodedPoints(t *testing.T) {
	flood := newLayer(10, 8)
	flood.Set(1, 2, 3)
	flood.Set(1, 4, 6)

	x1, y1 := at(3, 2)
	x2, y2 := at(6, 4)
	x3, y3 := at(0, 0) // dry pixel
	points := []vector.Point{
		{X: x1, Y: y1, Attrs: map[string]string{"amenity": "restaurant"}},
		{X: x2, Y: y2, Attrs: map[string]string{"amenity": "bank"}},
		{X: x3, Y: y3, Attrs: map[string]string{"amenity": "school"}},
		{X: -76.5, Y: y1, Attrs: map[string]string{"amenity": "school"}}, // outside raster
		{X: x1, Y: y1, Attrs: map[string]string{"name": "untagged"}},
	}

	res := Amenities(flood, points, amenity.NewClassifier(cost.DefaultModel()))

	if len(res.Points) != 3 {
		t.Fatalf("retained %d points, want 3", len(res.Points))
	}
	p0 := res.Points[0]
	if p0.Col != 3 || p0.Row != 2 || p0.Category != amenity.Food || p0.Cost != 28875 || p0.Tag != "restaurant" {
		t.Errorf("point 0 = %+v", p0)
	}
	if res.Points[1].Category != amenity.Financial || res.Points[1].Cost != 28050 {
		t.Errorf("point 1 = %+v", res.Points[1])
	}
	if res.Points[2].Category != amenity.None || res.Points[2].Cost != 0 {
		t.Errorf("uncategorized point = %+v", res.Points[2])
	}

	if len(res.Counts) != 2 || res.Counts[amenity.Food] != 1 || res.Counts[amenity.Financial] != 1 {
		t.Errorf("Counts = %v, want food:1 financial:1", res.Counts)
	}
	if res.MaxCost != 28875 {
		t.Errorf("MaxCost = %v, want 28875", res.MaxCost)
	}
}

func TestAmenitiesPreservesInputOrder(t *testing.T) {
	flood := newLayer(10, 8)
	flood.Set(1, 2, 3)
	x, y := at(3, 2)

	points := []vector.Point{
		{X: x, Y: y, Attrs: map[string]string{"amenity": "hospital"}},
		{X: x, Y: y, Attrs: map[string]string{"amenity": "restaurant"}},
		{X: x, Y: y, Attrs: map[string]string{"name": "untagged"}},
	}
	res := Amenities(flood, points, amenity.NewClassifier(cost.DefaultModel()))

	wantOrder := []amenity.Category{amenity.Healthcare, amenity.Food, amenity.None}
	if len(res.Points) != len(wantOrder) {
		t.Fatalf("retained %d points, want %d", len(res.Points), len(wantOrder))
	}
	for i, w := range wantOrder {
		if res.Points[i].Category != w {
			t.Errorf("point %d category = %q, want %q", i, res.Points[i].Category, w)
		}
	}
}

func TestCostByte(t *testing.T) {
	cases := []struct {
		cost, max float64
		want      uint8
	}{
		{28875, 28875, 255},
		{28050, 28875, 247}, // 28050 * 255 / 28875 = 247.71..., truncated
		{0, 28875, 0},
		{14437.5, 28875, 127}, // exactly half scales to 127.5, truncated
		{100, 0, 0},           // empty retained set
	}
	for _, tc := range cases {
		if got := CostByte(tc.cost, tc.max); got != tc.want {
			t.Errorf("CostByte(%v, %v) = %d, want %d", tc.cost, tc.max, got, tc.want)
		}
	}
}

func TestAmenitiesEmptyInput(t *testing.T) {
	flood := newLayer(10, 8)
	flood.Set(1, 2, 3)

	res := Amenities(flood, nil, amenity.NewClassifier(cost.DefaultModel()))
	if len(res.Points) != 0 || len(res.Counts) != 0 {
		t.Errorf("empty input retained %d points, %d categories", len(res.Points), len(res.Counts))
	}
	if res.MaxCost != 0 {
		t.Errorf("MaxCost = %v, want 0", res.MaxCost)
	}
}
