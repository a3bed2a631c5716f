// Package export encodes conversion results and grid zones for other tools:
// GeoJSON, WKT and EWKB through go-geom, plus plain JSON and YAML documents.
package export

import (
	"bytes"
	"encoding/json"

	"github.com/kass/geoconv/pkg/convert"
	"github.com/kass/geoconv/pkg/gzd"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
	"gopkg.in/yaml.v3"
)

// SRID of every geometry written by this package.
const SRID = 4326

// Point returns the result position as a WGS84 point, longitude first.
func Point(r convert.Result) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{r.Geographic.Lon, r.Geographic.Lat}).SetSRID(SRID)
}

func properties(r convert.Result) map[string]interface{} {
	props := map[string]interface{}{
		"format":          r.Format.String(),
		"decimal":         r.Decimal,
		"dms":             r.DMS,
		"google_maps_url": r.GoogleMapsURL,
		"geo_uri":         r.GeoURI,
	}
	for k, v := range map[string]string{
		"input":      r.Input,
		"utm":        r.UTM,
		"mgrs":       r.MGRS,
		"map_centre": r.MapCentre,
		"zone":       r.Zone,
	} {
		if v != "" {
			props[k] = v
		}
	}
	if len(r.Warnings) > 0 {
		props["warnings"] = r.Warnings
	}
	return props
}

// GeoJSON encodes a result as a Feature with a Point geometry and every
// notation as a property.
func GeoJSON(r convert.Result) ([]byte, error) {
	f := &geojson.Feature{
		Geometry:   Point(r),
		Properties: properties(r),
	}
	data, err := f.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "export: encode geojson feature")
	}
	return data, nil
}

// GeoJSONCollection encodes several results as one FeatureCollection.
func GeoJSONCollection(results []convert.Result) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(results))}
	for _, r := range results {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   Point(r),
			Properties: properties(r),
		})
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "export: encode geojson collection")
	}
	return data, nil
}

// WKT renders the result position as well-known text.
func WKT(r convert.Result) (string, error) {
	s, err := wkt.Marshal(Point(r))
	if err != nil {
		return "", eris.Wrap(err, "export: encode wkt")
	}
	return s, nil
}

// EWKB renders the result position as little-endian extended WKB with
// SRID 4326, the form PostGIS accepts directly.
func EWKB(r convert.Result) ([]byte, error) {
	data, err := ewkb.Marshal(Point(r), ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "export: encode ewkb")
	}
	return data, nil
}

// ZonePolygon returns the outline of a grid zone as a closed ring.
func ZonePolygon(z gzd.Zone) *geom.Polygon {
	bl, tr := z.Bounds.BottomLeft, z.Bounds.TopRight
	flat := []float64{
		bl.Lon, bl.Lat,
		tr.Lon, bl.Lat,
		tr.Lon, tr.Lat,
		bl.Lon, tr.Lat,
		bl.Lon, bl.Lat,
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(SRID)
}

// ZonesGeoJSON encodes grid zones as a FeatureCollection of polygons.
func ZonesGeoJSON(zones []gzd.Zone) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(zones))}
	for _, z := range zones {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       z.Designator(),
			Geometry: ZonePolygon(z),
			Properties: map[string]interface{}{
				"designator": z.Designator(),
				"zone":       z.Number,
				"band":       string(z.Band),
			},
		})
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "export: encode zones")
	}
	return data, nil
}

// JSON renders v as indented JSON followed by a newline.
func JSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, eris.Wrap(err, "export: encode json")
	}
	return buf.Bytes(), nil
}

// YAML renders v as a YAML document.
func YAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, eris.Wrap(err, "export: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, eris.Wrap(err, "export: close yaml encoder")
	}
	return buf.Bytes(), nil
}
