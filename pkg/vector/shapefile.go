package vector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// tagFields are the attribute columns consulted for classification, in
// priority order. DBF columns are requested by name, so these are the only
// attributes a shapefile layer carries; columns missing from a file are
// simply absent from the attribute maps.
var tagFields = []string{"amenity", "other_tags", "fclass"}

func readShapefile(path string) (*Layer, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("reading amenity layer: %w", err)
	}
	defer d.Close()

	l := new(Layer)
	if hasSidecar(path, ".prj") {
		sr, err := d.SR()
		if err != nil {
			return nil, fmt.Errorf("reading projection for %s: %w", path, err)
		}
		l.SR = sr
	}

	for {
		g, fields, more := d.DecodeRowFields(tagFields...)
		if !more {
			break
		}
		pt, ok := g.(geom.Point)
		if !ok {
			continue
		}
		attrs := make(map[string]string, len(fields))
		for k, v := range fields {
			// DBF strings are space-padded and may carry trailing NULs.
			attrs[k] = strings.TrimRight(v, " \x00")
		}
		l.Points = append(l.Points, Point{X: pt.X, Y: pt.Y, Attrs: attrs})
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("reading amenity layer %s: %w", path, err)
	}
	return l, nil
}

func hasSidecar(path, ext string) bool {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	_, err := os.Stat(base + ext)
	return err == nil
}
