package channel

import (
	"testing"

	"github.com/RickytheGuy/FloodImpact/pkg/grid"
	"github.com/RickytheGuy/FloodImpact/pkg/raster"
)

func testGrid(w, h int) grid.Grid {
	return grid.Grid{
		Width:   w,
		Height:  h,
		OriginX: -76,
		OriginY: -6,
		PixelW:  0.01,
		PixelH:  -0.01,
	}
}

func newLayer(w, h int) *raster.Layer {
	return raster.NewLayer(testGrid(w, h))
}

func TestPopulationMasksSumsAndNormalizes(t *testing.T) {
	flood := newLayer(4, 3)
	flood.Set(1, 0, 0)
	flood.Set(1, 0, 1)
	flood.Set(1, 1, 1)

	pop := newLayer(4, 3)
	pop.Set(5.5, 0, 0)
	pop.Set(10, 0, 1)
	pop.Set(4.25, 1, 1)
	pop.Set(99, 2, 2) // dry, must not contribute

	res, err := Population(flood, pop)
	if err != nil {
		t.Fatalf("Population: %v", err)
	}
	if res.Count != 19 {
		t.Errorf("Count = %d, want 19 (sum 19.75 truncated)", res.Count)
	}
	if res.RawMax != 10 {
		t.Errorf("RawMax = %v, want 10", res.RawMax)
	}

	// Range is 0..10 over the masked plane, so scale is 25.5 per person.
	want := map[[2]int]uint8{
		{0, 0}: 140, // 5.5 * 25.5 = 140.25
		{0, 1}: 255,
		{1, 1}: 108, // 4.25 * 25.5 = 108.375
		{2, 2}: 0,
	}
	for at, w := range want {
		if got := res.Channel.At(at[0], at[1]); got != w {
			t.Errorf("channel[%d,%d] = %d, want %d", at[0], at[1], got, w)
		}
	}
}

func TestPopulationTreatsNoDataAsZero(t *testing.T) {
	flood := newLayer(2, 2)
	flood.Set(1, 0, 0)
	flood.Set(1, 0, 1)

	pop := newLayer(2, 2)
	pop.NoData = -99999
	pop.HasNoData = true
	pop.Set(-99999, 0, 0)
	pop.Set(8, 0, 1)

	res, err := Population(flood, pop)
	if err != nil {
		t.Fatalf("Population: %v", err)
	}
	if res.Count != 8 {
		t.Errorf("Count = %d, want 8", res.Count)
	}
	if res.RawMax != 8 {
		t.Errorf("RawMax = %v, want 8", res.RawMax)
	}
	if got := res.Channel.At(0, 0); got != 0 {
		t.Errorf("nodata cell = %d, want 0", got)
	}
	if got := res.Channel.At(0, 1); got != 255 {
		t.Errorf("populated cell = %d, want 255", got)
	}
}

func TestPopulationFlatPlane(t *testing.T) {
	flood := newLayer(3, 2)
	pop := newLayer(3, 2)
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			flood.Set(1, row, col)
			pop.Set(7, row, col)
		}
	}

	res, err := Population(flood, pop)
	if err != nil {
		t.Fatalf("Population: %v", err)
	}
	if res.Count != 42 {
		t.Errorf("Count = %d, want 42", res.Count)
	}
	if res.RawMax != 7 {
		t.Errorf("RawMax = %v, want 7", res.RawMax)
	}
	for i, v := range res.Channel.Pix {
		if v != 0 {
			t.Fatalf("flat plane pixel %d = %d, want all-zero channel", i, v)
		}
	}
}

func TestPopulationAllDry(t *testing.T) {
	flood := newLayer(3, 3)
	pop := newLayer(3, 3)
	pop.Set(123, 1, 1)

	res, err := Population(flood, pop)
	if err != nil {
		t.Fatalf("Population: %v", err)
	}
	if res.Count != 0 || res.RawMax != 0 {
		t.Errorf("Count = %d, RawMax = %v; want 0, 0", res.Count, res.RawMax)
	}
	for i, v := range res.Channel.Pix {
		if v != 0 {
			t.Fatalf("dry pixel %d = %d, want 0", i, v)
		}
	}
}

func TestPopulationShapeMismatch(t *testing.T) {
	if _, err := Population(newLayer(3, 2), newLayer(2, 2)); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}
