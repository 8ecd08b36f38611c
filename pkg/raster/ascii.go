package raster

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RickytheGuy/FloodImpact/pkg/grid"
	"github.com/ctessum/geom/proj"
)

// ascHeader collects the keyword lines of an ESRI ASCII grid. The format has
// two corner conventions (lower-left corner or lower-left cell center) and a
// GDAL extension replacing cellsize with separate dx/dy.
type ascHeader struct {
	ncols, nrows           int
	xll, yll               float64
	xCenter, yCenter       bool
	cellSize, dx, dy       float64
	hasCell, hasDx, hasDy  bool
	noData                 float64
	hasNoData              bool
	hasNcols, hasNrows     bool
	hasX, hasY             bool
}

// ReadASC reads an ESRI ASCII grid. A sidecar file with the same name and a
// .prj extension, holding a proj4 string, supplies the CRS when present.
func ReadASC(path string) (*Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raster: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var h ascHeader
	first, err := readHeader(sc, &h)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := h.grid()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	l := NewLayer(g)
	l.NoData = h.noData
	l.HasNoData = h.hasNoData

	// Data tokens follow the header, north row first, matching our row order.
	n := g.Width * g.Height
	l.Data.Elements[0], err = strconv.ParseFloat(first, 64)
	if err != nil {
		return nil, fmt.Errorf("reading %s: bad value %q: %w", path, first, err)
	}
	for i := 1; i < n; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			return nil, fmt.Errorf("reading %s: %d values, want %d", path, i, n)
		}
		l.Data.Elements[i], err = strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("reading %s: bad value %q: %w", path, sc.Text(), err)
		}
	}

	proj4, err := readPrjSidecar(path)
	if err != nil {
		return nil, err
	}
	l.Grid.Proj4 = proj4

	return l, nil
}

// readHeader consumes keyword/value pairs and returns the first data token.
func readHeader(sc *bufio.Scanner, h *ascHeader) (string, error) {
	for sc.Scan() {
		tok := sc.Text()
		key := strings.ToLower(tok)
		var dst *float64
		switch key {
		case "ncols", "nrows":
			if !sc.Scan() {
				return "", fmt.Errorf("missing value after %s", key)
			}
			v, err := strconv.Atoi(sc.Text())
			if err != nil {
				return "", fmt.Errorf("bad %s %q: %w", key, sc.Text(), err)
			}
			if key == "ncols" {
				h.ncols, h.hasNcols = v, true
			} else {
				h.nrows, h.hasNrows = v, true
			}
			continue
		case "xllcorner":
			dst, h.hasX = &h.xll, true
		case "xllcenter":
			dst, h.hasX, h.xCenter = &h.xll, true, true
		case "yllcorner":
			dst, h.hasY = &h.yll, true
		case "yllcenter":
			dst, h.hasY, h.yCenter = &h.yll, true, true
		case "cellsize":
			dst, h.hasCell = &h.cellSize, true
		case "dx":
			dst, h.hasDx = &h.dx, true
		case "dy":
			dst, h.hasDy = &h.dy, true
		case "nodata_value":
			dst, h.hasNoData = &h.noData, true
		default:
			// First non-keyword token starts the data block.
			return tok, nil
		}
		if !sc.Scan() {
			return "", fmt.Errorf("missing value after %s", key)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return "", fmt.Errorf("bad %s %q: %w", key, sc.Text(), err)
		}
		*dst = v
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no data values after header")
}

// grid converts the header to a Grid, normalizing both corner conventions to
// a top-left origin with a negative PixelH.
func (h ascHeader) grid() (grid.Grid, error) {
	if !h.hasNcols || !h.hasNrows {
		return grid.Grid{}, fmt.Errorf("header missing ncols/nrows")
	}
	if !h.hasX || !h.hasY {
		return grid.Grid{}, fmt.Errorf("header missing xllcorner/yllcorner")
	}
	dx, dy := h.dx, h.dy
	switch {
	case h.hasCell:
		dx, dy = h.cellSize, h.cellSize
	case h.hasDx && h.hasDy:
	default:
		return grid.Grid{}, fmt.Errorf("header missing cellsize (or dx/dy)")
	}
	xll, yll := h.xll, h.yll
	if h.xCenter {
		xll -= dx / 2
	}
	if h.yCenter {
		yll -= dy / 2
	}
	g := grid.Grid{
		Width:   h.ncols,
		Height:  h.nrows,
		OriginX: xll,
		OriginY: yll + float64(h.nrows)*dy,
		PixelW:  dx,
		PixelH:  -dy,
	}
	if err := g.Validate(); err != nil {
		return grid.Grid{}, err
	}
	return g, nil
}

func readPrjSidecar(path string) (string, error) {
	prjPath := sidecarPath(path, ".prj")
	data, err := os.ReadFile(prjPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading projection sidecar: %w", err)
	}
	proj4 := strings.TrimSpace(string(data))
	if proj4 == "" {
		return "", nil
	}
	if _, err := proj.Parse(proj4); err != nil {
		return "", fmt.Errorf("parsing %s: %w", prjPath, err)
	}
	return proj4, nil
}

// sidecarPath swaps the extension of path for ext.
func sidecarPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// WriteASC writes a layer as an ESRI ASCII grid, plus a .prj sidecar when
// the grid carries a CRS. Only north-up unrotated grids can be written.
func WriteASC(path string, l *Layer) error {
	g := l.Grid
	if err := g.Validate(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if g.PixelH > 0 {
		return fmt.Errorf("writing %s: south-up grids are not supported", path)
	}
	if err := l.CheckShape(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing raster: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	dy := -g.PixelH
	fmt.Fprintf(w, "ncols %d\n", g.Width)
	fmt.Fprintf(w, "nrows %d\n", g.Height)
	fmt.Fprintf(w, "xllcorner %s\n", formatFloat(g.OriginX))
	fmt.Fprintf(w, "yllcorner %s\n", formatFloat(g.OriginY-float64(g.Height)*dy))
	if g.PixelW == dy {
		fmt.Fprintf(w, "cellsize %s\n", formatFloat(dy))
	} else {
		fmt.Fprintf(w, "dx %s\n", formatFloat(g.PixelW))
		fmt.Fprintf(w, "dy %s\n", formatFloat(dy))
	}
	if l.HasNoData {
		fmt.Fprintf(w, "NODATA_value %s\n", formatFloat(l.NoData))
	}

	for r := 0; r < g.Height; r++ {
		row := l.Data.Elements[r*g.Width : (r+1)*g.Width]
		for c, v := range row {
			if c > 0 {
				if err := w.WriteByte(' '); err != nil {
					return fmt.Errorf("writing raster: %w", err)
				}
			}
			if _, err := w.WriteString(formatFloat(v)); err != nil {
				return fmt.Errorf("writing raster: %w", err)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing raster: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing raster: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing raster: %w", err)
	}

	if g.Proj4 != "" {
		if err := os.WriteFile(sidecarPath(path, ".prj"), []byte(g.Proj4+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing projection sidecar: %w", err)
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
