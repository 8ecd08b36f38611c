package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// EncodeImpactPNG encodes the 4-band composite as an RGBA PNG:
// R=population, G=cropland, B=amenity cost, A=alpha.
func EncodeImpactPNG(w io.Writer, im *Impact) error {
	g := im.Grid
	if err := g.Validate(); err != nil {
		return fmt.Errorf("encoding impact raster: %w", err)
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	n := g.Width * g.Height
	for i := 0; i < n; i++ {
		rgba.Pix[4*i+0] = im.Bands[BandPopulation].Pix[i]
		rgba.Pix[4*i+1] = im.Bands[BandCropland].Pix[i]
		rgba.Pix[4*i+2] = im.Bands[BandAmenity].Pix[i]
		rgba.Pix[4*i+3] = im.Bands[BandAlpha].Pix[i]
	}
	if err := png.Encode(w, rgba); err != nil {
		return fmt.Errorf("encoding impact raster: %w", err)
	}
	return nil
}

// WriteImpactPNG writes the composite to disk. A world file (.pgw)
// georeferences the image and a .prj sidecar carries the CRS, so the result
// is equivalent to a 4-band byte GeoTIFF for GIS consumers.
func WriteImpactPNG(path string, im *Impact) error {
	if err := im.Grid.Validate(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing impact raster: %w", err)
	}
	defer f.Close()
	if err := EncodeImpactPNG(f, im); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing impact raster: %w", err)
	}

	if err := writeWorldFile(sidecarPath(path, ".pgw"), im); err != nil {
		return err
	}
	if im.Grid.Proj4 != "" {
		if err := os.WriteFile(sidecarPath(path, ".prj"), []byte(im.Grid.Proj4+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing projection sidecar: %w", err)
		}
	}
	return nil
}

// writeWorldFile emits the six-line ESRI world file: x scale, y skew,
// x skew, y scale, then the world coordinate of the center of the top-left
// pixel.
func writeWorldFile(path string, im *Impact) error {
	g := im.Grid
	centerX := g.OriginX + g.PixelW/2 + g.SkewX/2
	centerY := g.OriginY + g.PixelH/2 + g.SkewY/2

	content := formatFloat(g.PixelW) + "\n" +
		formatFloat(g.SkewY) + "\n" +
		formatFloat(g.SkewX) + "\n" +
		formatFloat(g.PixelH) + "\n" +
		formatFloat(centerX) + "\n" +
		formatFloat(centerY) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing world file: %w", err)
	}
	return nil
}
