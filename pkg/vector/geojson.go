package vector

import (
	"fmt"
	"os"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// wgs84 is the coordinate reference system GeoJSON mandates (RFC 7946).
const wgs84 = "+proj=longlat +datum=WGS84 +no_defs"

func readGeoJSON(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading amenity layer: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing amenity layer %s: %w", path, err)
	}
	sr, err := proj.Parse(wgs84)
	if err != nil {
		return nil, fmt.Errorf("parsing amenity layer %s: %w", path, err)
	}

	l := &Layer{SR: sr}
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		attrs := make(map[string]string)
		for k, v := range f.Properties {
			if s, ok := v.(string); ok {
				attrs[k] = s
			}
		}
		l.Points = append(l.Points, Point{X: pt[0], Y: pt[1], Attrs: attrs})
	}
	return l, nil
}
