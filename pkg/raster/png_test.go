package raster

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RickytheGuy/FloodImpact/pkg/grid"
)

func testImpact() *Impact {
	g := grid.Grid{
		Width:   3,
		Height:  2,
		OriginX: 10.0,
		OriginY: 48.0,
		PixelW:  0.1,
		PixelH:  -0.1,
	}
	im := NewImpact(g)
	im.Bands[BandPopulation].Set(200, 0, 1)
	im.Bands[BandCropland].Set(255, 1, 0)
	im.Bands[BandAmenity].Set(90, 1, 2)
	im.Bands[BandAlpha].Set(255, 0, 1)
	im.Bands[BandAlpha].Set(255, 1, 0)
	im.Bands[BandAlpha].Set(255, 1, 2)
	return im
}

func TestWriteImpactPNGBands(t *testing.T) {
	im := testImpact()
	path := filepath.Join(t.TempDir(), "impact.png")
	if err := WriteImpactPNG(path, im); err != nil {
		t.Fatalf("WriteImpactPNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding written PNG: %v", err)
	}

	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("image is %v, want 3x2", img.Bounds())
	}

	// Band values come back through the NRGBA channels.
	r, g, b, a := img.At(1, 0).RGBA()
	if a>>8 != 255 {
		t.Fatalf("alpha at (1,0) = %d, want 255", a>>8)
	}
	if r>>8 != 200 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("pixel (1,0) = (%d,%d,%d), want (200,0,0)", r>>8, g>>8, b>>8)
	}

	r, g, b, a = img.At(2, 1).RGBA()
	if b>>8 != 90 || a>>8 != 255 {
		t.Errorf("pixel (2,1) = (%d,%d,%d,%d), want blue 90 alpha 255", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestWriteImpactPNGWorldFile(t *testing.T) {
	im := testImpact()
	dir := t.TempDir()
	path := filepath.Join(dir, "impact.png")
	if err := WriteImpactPNG(path, im); err != nil {
		t.Fatalf("WriteImpactPNG: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "impact.pgw"))
	if err != nil {
		t.Fatalf("world file not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("world file has %d lines, want 6", len(lines))
	}
	want := []string{"0.1", "0", "0", "-0.1", "10.05", "47.95"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("world file line %d = %q, want %q", i+1, lines[i], w)
		}
	}
}

func TestWriteImpactPNGDeterministic(t *testing.T) {
	im := testImpact()
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.png")
	p2 := filepath.Join(dir, "b.png")
	if err := WriteImpactPNG(p1, im); err != nil {
		t.Fatal(err)
	}
	if err := WriteImpactPNG(p2, im); err != nil {
		t.Fatal(err)
	}
	b1, err := os.ReadFile(p1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := os.ReadFile(p2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1, b2) {
		t.Error("identical composites produced different PNG bytes")
	}
}
