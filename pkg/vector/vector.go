// Package vector loads amenity point layers from GeoJSON or ESRI shapefile
// sources and reprojects them into a raster grid's coordinate frame.
//
// Only point geometries are kept; other geometry types are skipped. GeoJSON
// layers keep every string-valued property as an attribute. Shapefile layers
// read the fixed attribute columns used for classification, since DBF access
// is by column name.
package vector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// Point is a single amenity location with its attribute table.
type Point struct {
	X, Y  float64
	Attrs map[string]string
}

// Layer is an ordered collection of points with an optional source
// spatial reference. SR is nil when the source file declared none; such
// layers are assumed to already be in the target frame.
type Layer struct {
	Points []Point
	SR     *proj.SR
}

// ReadPoints loads a point layer, dispatching on the file extension.
// GeoJSON (.geojson, .json) and shapefile (.shp) sources are supported.
func ReadPoints(path string) (*Layer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return readGeoJSON(path)
	case ".shp":
		return readShapefile(path)
	default:
		return nil, fmt.Errorf("reading amenity layer %s: unsupported format %q", path, filepath.Ext(path))
	}
}

// Reproject converts every point into the projection described by proj4.
// It is a no-op when the layer has no recorded source projection, when the
// target is unspecified, or when both source and target are geographic.
func (l *Layer) Reproject(proj4 string) error {
	if l.SR == nil || proj4 == "" {
		return nil
	}
	dst, err := proj.Parse(proj4)
	if err != nil {
		return fmt.Errorf("reprojecting amenity layer: parsing target projection: %w", err)
	}
	if l.SR.Name == "longlat" && dst.Name == "longlat" {
		return nil
	}
	tr, err := l.SR.NewTransform(dst)
	if err != nil {
		return fmt.Errorf("reprojecting amenity layer: %w", err)
	}
	for i, p := range l.Points {
		g, err := geom.Point{X: p.X, Y: p.Y}.Transform(tr)
		if err != nil {
			return fmt.Errorf("reprojecting amenity point %d: %w", i, err)
		}
		q := g.(geom.Point)
		l.Points[i].X = q.X
		l.Points[i].Y = q.Y
	}
	return nil
}
