// Package models holds the value types passed between the classifier,
// the parsers and the converters.
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GeographicCoordinate is a WGS84 latitude/longitude pair in decimal degrees.
type GeographicCoordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Valid reports whether both fields are finite and inside their ranges.
func (g GeographicCoordinate) Valid() bool {
	return ValidLatLon(g.Lat, g.Lon)
}

// Validate returns ErrOutOfRange when the coordinate is not Valid.
func (g GeographicCoordinate) Validate() error {
	if !g.Valid() {
		return OutOfRangef("coordinate %g, %g", g.Lat, g.Lon)
	}
	return nil
}

// String renders the coordinate with six decimals, "52.520000, 13.405000".
func (g GeographicCoordinate) String() string {
	return fmt.Sprintf("%.6f, %.6f", g.Lat, g.Lon)
}

// ValidLatLon reports whether lat is in [-90,90] and lon in [-180,180].
func ValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// UTMCoordinate is a position in one of the 60 UTM zones.
// The band letter selects the hemisphere: 'N' and above is north.
type UTMCoordinate struct {
	ZoneNumber int  `json:"zone" yaml:"zone"`
	Band       byte `json:"-" yaml:"-"`
	Easting    int  `json:"easting" yaml:"easting"`
	Northing   int  `json:"northing" yaml:"northing"`
}

// Northern reports whether the band letter is in the northern hemisphere.
func (u UTMCoordinate) Northern() bool {
	return u.Band >= 'N'
}

// Zone returns the zone designator, e.g. "33T".
func (u UTMCoordinate) Zone() string {
	return fmt.Sprintf("%d%c", u.ZoneNumber, u.Band)
}

// String renders "33T 500000 4649776".
func (u UTMCoordinate) String() string {
	return fmt.Sprintf("%s %d %d", u.Zone(), u.Easting, u.Northing)
}

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft GeographicCoordinate `json:"bottom_left"`
	TopRight   GeographicCoordinate `json:"top_right"`
}

// Contains reports whether g lies inside the box, edges included.
func (b BoundingBox) Contains(g GeographicCoordinate) bool {
	return g.Lat >= b.BottomLeft.Lat && g.Lat <= b.TopRight.Lat &&
		g.Lon >= b.BottomLeft.Lon && g.Lon <= b.TopRight.Lon
}

// Validate checks both corners and their ordering.
func (b BoundingBox) Validate() error {
	if !b.BottomLeft.Valid() || !b.TopRight.Valid() {
		return OutOfRangef("bounding box %v / %v", b.BottomLeft, b.TopRight)
	}
	if b.BottomLeft.Lat > b.TopRight.Lat || b.BottomLeft.Lon > b.TopRight.Lon {
		return MalformedInputf("bounding box corners out of order")
	}
	return nil
}

// ParseBoundingBox reads "minLon,minLat,maxLon,maxLat" and validates it.
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, MalformedInputf("bbox %q needs minLon,minLat,maxLon,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BoundingBox{}, MalformedInputf("bbox value %q", p)
		}
		v[i] = f
	}
	box := BoundingBox{
		BottomLeft: GeographicCoordinate{Lon: v[0], Lat: v[1]},
		TopRight:   GeographicCoordinate{Lon: v[2], Lat: v[3]},
	}
	if err := box.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return box, nil
}
