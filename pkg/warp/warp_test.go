package warp

import (
	"testing"

	"github.com/RickytheGuy/FloodImpact/pkg/grid"
	"github.com/RickytheGuy/FloodImpact/pkg/raster"
)

func sourceLayer() *raster.Layer {
	g := grid.Grid{
		Width:   4,
		Height:  4,
		OriginX: 0,
		OriginY: 4,
		PixelW:  1,
		PixelH:  -1,
	}
	l := raster.NewLayer(g)
	for i := range l.Data.Elements {
		l.Data.Elements[i] = float64(i + 1)
	}
	return l
}

func TestRegridAlignedCopies(t *testing.T) {
	src := sourceLayer()
	out, err := Regrid(src, src.Grid)
	if err != nil {
		t.Fatalf("Regrid: %v", err)
	}
	for i, v := range src.Data.Elements {
		if out.Data.Elements[i] != v {
			t.Fatalf("element %d = %f, want %f", i, out.Data.Elements[i], v)
		}
	}

	// The copy must be a private buffer, not a view of the source.
	out.Data.Elements[0] = -1
	if src.Data.Elements[0] == -1 {
		t.Error("regrid of an aligned layer shares the source buffer")
	}
}

func TestRegridIdentitySameSpace(t *testing.T) {
	src := sourceLayer()

	// Same extent, no CRS on either side: values must land on the same cells.
	dst := src.Grid
	dst.Proj4 = ""
	out, err := Regrid(src, dst)
	if err != nil {
		t.Fatalf("Regrid: %v", err)
	}
	if out.At(0, 0) != 1 || out.At(3, 3) != 16 {
		t.Errorf("identity regrid moved values: corners %f, %f", out.At(0, 0), out.At(3, 3))
	}
}

func TestRegridDownsample(t *testing.T) {
	src := sourceLayer()

	// A 2x2 destination with 2-unit cells over the same extent. Each
	// destination center falls in one specific source cell.
	dst := grid.Grid{Width: 2, Height: 2, OriginX: 0, OriginY: 4, PixelW: 2, PixelH: -2}
	out, err := Regrid(src, dst)
	if err != nil {
		t.Fatalf("Regrid: %v", err)
	}

	// Destination cell (0,0) has center (1,3), inside source cell col 1 row 1
	// (value 6). Destination (1,1) has center (3,1), source col 3 row 3
	// (value 16).
	if out.At(0, 0) != 6 {
		t.Errorf("dst (0,0) = %f, want 6", out.At(0, 0))
	}
	if out.At(1, 1) != 16 {
		t.Errorf("dst (1,1) = %f, want 16", out.At(1, 1))
	}
}

func TestRegridOutsideSourceFilledZero(t *testing.T) {
	src := sourceLayer()

	// Destination extends past the source on all sides.
	dst := grid.Grid{Width: 8, Height: 8, OriginX: -2, OriginY: 6, PixelW: 1, PixelH: -1}
	out, err := Regrid(src, dst)
	if err != nil {
		t.Fatalf("Regrid: %v", err)
	}

	if out.At(0, 0) != 0 {
		t.Errorf("cell outside source = %f, want 0", out.At(0, 0))
	}
	// Source cell (0,0) value 1 appears at the shifted position.
	if out.At(2, 2) != 1 {
		t.Errorf("shifted source corner = %f, want 1", out.At(2, 2))
	}
}

func TestRegridTransformsBetweenCRS(t *testing.T) {
	// Source in web mercator meters covering roughly the same spot as a
	// small longlat destination near the equator.
	const merc = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"
	srcGrid := grid.Grid{
		Width:   2,
		Height:  2,
		OriginX: 0,
		OriginY: 22300,
		PixelW:  11150,
		PixelH:  -11150,
		Proj4:   merc,
	}
	src := raster.NewLayer(srcGrid)
	src.Set(1, 0, 0)
	src.Set(2, 0, 1)
	src.Set(3, 1, 0)
	src.Set(4, 1, 1)

	// 0.2 degrees is ~22260 m at the equator, so the destination covers
	// nearly the same square.
	dst := grid.Grid{
		Width:   2,
		Height:  2,
		OriginX: 0,
		OriginY: 0.2,
		PixelW:  0.1,
		PixelH:  -0.1,
		Proj4:   "+proj=longlat +datum=WGS84 +no_defs",
	}

	out, err := Regrid(src, dst)
	if err != nil {
		t.Fatalf("Regrid across CRS: %v", err)
	}

	// Quadrant layout must be preserved.
	if out.At(0, 0) != 1 || out.At(0, 1) != 2 || out.At(1, 0) != 3 || out.At(1, 1) != 4 {
		t.Errorf("quadrants = %v, want [1 2 3 4]", out.Data.Elements)
	}
}

func TestRegridChecksShapes(t *testing.T) {
	src := sourceLayer()
	bad := grid.Grid{Width: 0, Height: 2, PixelW: 1, PixelH: -1}
	if _, err := Regrid(src, bad); err == nil {
		t.Fatal("expected error for degenerate target grid")
	}
}
