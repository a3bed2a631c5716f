// Package projection defines the UTM zone table and projects between
// WGS84 geographic coordinates and UTM easting/northing.
package projection

import (
	"fmt"
	"math"

	"github.com/kass/geoconv/pkg/models"
	"github.com/wroge/wgs84"
)

// UTM constants shared by every zone.
const (
	MinZone       = 1
	MaxZone       = 60
	ZoneWidth     = 6.0
	ScaleFactor   = 0.9996
	FalseEasting  = 500000.0
	SouthFalseN   = 10000000.0
	epsgNorthBase = 32600
	epsgSouthBase = 32700
)

// Hemisphere selects the north or south variant of a zone.
type Hemisphere int

const (
	North Hemisphere = iota
	South
)

func (h Hemisphere) String() string {
	if h == South {
		return "south"
	}
	return "north"
}

// HemisphereOf returns North for latitudes >= 0.
func HemisphereOf(lat float64) Hemisphere {
	if lat >= 0 {
		return North
	}
	return South
}

// HemisphereOfBand returns North for band letters 'N' and above.
func HemisphereOfBand(band byte) Hemisphere {
	if band >= 'N' {
		return North
	}
	return South
}

// Params describe one projected system: a zone and hemisphere.
type Params struct {
	Zone            int
	Hemisphere      Hemisphere
	CentralMeridian float64
	FalseEasting    float64
	FalseNorthing   float64
	ScaleFactor     float64
}

// EPSG returns the WGS84 / UTM EPSG code, 326zz for north and 327zz for south.
func (p Params) EPSG() int {
	if p.Hemisphere == South {
		return epsgSouthBase + p.Zone
	}
	return epsgNorthBase + p.Zone
}

// Proj4 returns the equivalent PROJ definition string.
func (p Params) Proj4() string {
	if p.Hemisphere == South {
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", p.Zone)
	}
	return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", p.Zone)
}

// Registry holds one Params pair per zone with its projected system.
// Forward projection is wgs84's transverse Mercator; the inverse uses the
// Krüger series in tmerc.go.
type Registry struct {
	zones [MaxZone][2]Params
	crs   [MaxZone][2]wgs84.ProjectedReferenceSystem
	inv   *TransverseMercator
}

// NewRegistry builds the table for zones 1..60 on the WGS84 ellipsoid.
func NewRegistry() *Registry {
	r := &Registry{inv: NewTransverseMercator(WGS84, ScaleFactor)}
	for z := MinZone; z <= MaxZone; z++ {
		cm := float64(z)*ZoneWidth - 183
		for _, h := range []Hemisphere{North, South} {
			fn := 0.0
			if h == South {
				fn = SouthFalseN
			}
			r.zones[z-1][h] = Params{
				Zone:            z,
				Hemisphere:      h,
				CentralMeridian: cm,
				FalseEasting:    FalseEasting,
				FalseNorthing:   fn,
				ScaleFactor:     ScaleFactor,
			}
			r.crs[z-1][h] = wgs84.UTM(float64(z), h == North)
		}
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry. It is read-only and safe for
// concurrent use.
func Default() *Registry { return defaultRegistry }

// Zone returns the parameters for a zone and hemisphere.
func (r *Registry) Zone(zone int, h Hemisphere) (Params, error) {
	if zone < MinZone || zone > MaxZone {
		return Params{}, models.OutOfRangef("utm zone %d", zone)
	}
	if h != North && h != South {
		return Params{}, models.OutOfRangef("hemisphere %d", h)
	}
	return r.zones[zone-1][h], nil
}

// ProjectToUTM projects a geographic coordinate into the given zone.
func (r *Registry) ProjectToUTM(lat, lon float64, zone int, h Hemisphere) (easting, northing float64, err error) {
	p, err := r.Zone(zone, h)
	if err != nil {
		return 0, 0, err
	}
	if !models.ValidLatLon(lat, lon) {
		return 0, 0, models.OutOfRangef("coordinate %g, %g", lat, lon)
	}
	crs := r.crs[zone-1][h]
	easting, northing = crs.Projection.FromLonLat(p.CentralMeridian+normalizeLon(lon-p.CentralMeridian), lat, crs.Datum)
	return easting, northing, nil
}

// ProjectToGeographic inverts ProjectToUTM.
func (r *Registry) ProjectToGeographic(zone int, h Hemisphere, easting, northing float64) (lat, lon float64, err error) {
	p, err := r.Zone(zone, h)
	if err != nil {
		return 0, 0, err
	}
	if math.IsNaN(easting) || math.IsNaN(northing) || math.IsInf(easting, 0) || math.IsInf(northing, 0) {
		return 0, 0, models.OutOfRangef("easting/northing %g %g", easting, northing)
	}
	lat, dlon := r.inv.Inverse(easting-p.FalseEasting, northing-p.FalseNorthing)
	return lat, normalizeLon(dlon + p.CentralMeridian), nil
}

// ProjectToUTM projects with the default registry.
func ProjectToUTM(lat, lon float64, zone int, h Hemisphere) (easting, northing float64, err error) {
	return defaultRegistry.ProjectToUTM(lat, lon, zone, h)
}

// ProjectToGeographic inverts with the default registry.
func ProjectToGeographic(zone int, h Hemisphere, easting, northing float64) (lat, lon float64, err error) {
	return defaultRegistry.ProjectToGeographic(zone, h, easting, northing)
}

// ZoneForLongitude returns floor((lon+180)/6)+1, with 180° folded into zone 60.
func ZoneForLongitude(lon float64) int {
	z := int(math.Floor((lon+180)/ZoneWidth)) + 1
	if z > MaxZone {
		z = MaxZone
	}
	if z < MinZone {
		z = MinZone
	}
	return z
}

// normalizeLon folds a longitude difference into [-180, 180).
func normalizeLon(lon float64) float64 {
	if lon >= -180 && lon < 180 {
		return lon
	}
	return math.Mod(math.Mod(lon+180, 360)+360, 360) - 180
}
