// Package convert translates between geographic, UTM and MGRS notations and
// drives the detect, parse and describe pipeline.
package convert

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/mgrs"
	"github.com/kass/geoconv/pkg/models"
	"github.com/kass/geoconv/pkg/projection"
)

var zonePattern = regexp.MustCompile(`^(\d{1,2})([A-Za-z])$`)

// Valid UTM coordinates stay well inside these limits. Beyond them the
// inverse series wraps around to points outside the zone.
const (
	minEasting  = 100000
	maxEasting  = 900000
	maxNorthing = 10000000
	// maxZoneOffset is the widest distance from a central meridian, in
	// degrees, that any grid zone reaches, plus rounding slack.
	maxZoneOffset = 6.5
)

// GeographicToUTM projects a coordinate into its standard UTM zone. The zone
// comes from longitude alone; the Norway and Svalbard exceptions only apply
// to grid zone designators.
func GeographicToUTM(g models.GeographicCoordinate) (models.UTMCoordinate, error) {
	if err := g.Validate(); err != nil {
		return models.UTMCoordinate{}, err
	}
	zone := projection.ZoneForLongitude(g.Lon)
	e, n, err := projection.ProjectToUTM(g.Lat, g.Lon, zone, projection.HemisphereOf(g.Lat))
	if err != nil {
		return models.UTMCoordinate{}, err
	}
	return models.UTMCoordinate{
		ZoneNumber: zone,
		Band:       LatitudeBand(g.Lat),
		Easting:    int(math.Round(e)),
		Northing:   int(math.Round(n)),
	}, nil
}

// UTMToGeographic inverts GeographicToUTM. Bands N and above are north of
// the equator.
func UTMToGeographic(u models.UTMCoordinate) (models.GeographicCoordinate, error) {
	if strings.IndexByte(gzd.Bands, u.Band) < 0 {
		return models.GeographicCoordinate{}, models.InvalidZoneFormatf("band %q", u.Band)
	}
	if u.Easting < minEasting || u.Easting > maxEasting {
		return models.GeographicCoordinate{}, models.OutOfRangef("easting %d outside %d..%d", u.Easting, minEasting, maxEasting)
	}
	if u.Northing < 0 || u.Northing > maxNorthing {
		return models.GeographicCoordinate{}, models.OutOfRangef("northing %d outside 0..%d", u.Northing, maxNorthing)
	}
	h := projection.HemisphereOfBand(u.Band)
	lat, lon, err := projection.ProjectToGeographic(u.ZoneNumber, h, float64(u.Easting), float64(u.Northing))
	if err != nil {
		return models.GeographicCoordinate{}, err
	}
	p, err := projection.Default().Zone(u.ZoneNumber, h)
	if err != nil {
		return models.GeographicCoordinate{}, err
	}
	if offset := math.Abs(math.Remainder(lon-p.CentralMeridian, 360)); offset > maxZoneOffset {
		return models.GeographicCoordinate{}, models.OutOfRangef("%s decodes %.1f° from the central meridian", u, offset)
	}
	g := models.GeographicCoordinate{Lat: lat, Lon: lon}
	if err := g.Validate(); err != nil {
		return models.GeographicCoordinate{}, err
	}
	return g, nil
}

// ParseZone splits a designator such as "33T" into zone number and band.
func ParseZone(s string) (int, byte, error) {
	m := zonePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, models.InvalidZoneFormatf("zone %q", s)
	}
	zone, _ := strconv.Atoi(m[1])
	if zone < projection.MinZone || zone > projection.MaxZone {
		return 0, 0, models.OutOfRangef("zone %d outside %d..%d", zone, projection.MinZone, projection.MaxZone)
	}
	band := strings.ToUpper(m[2])[0]
	if strings.IndexByte(gzd.Bands, band) < 0 {
		return 0, 0, models.InvalidZoneFormatf("band %q in %q", band, s)
	}
	return zone, band, nil
}

// UTMToGeographicZone is UTMToGeographic for a designator string.
func UTMToGeographicZone(zone string, easting, northing int) (models.GeographicCoordinate, error) {
	z, band, err := ParseZone(zone)
	if err != nil {
		return models.GeographicCoordinate{}, err
	}
	return UTMToGeographic(models.UTMCoordinate{ZoneNumber: z, Band: band, Easting: easting, Northing: northing})
}

// GeographicToMGRS encodes a coordinate as a compact grid reference with
// precision digit pairs.
func GeographicToMGRS(g models.GeographicCoordinate, precision int) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	return mgrs.Encode(g.Lat, g.Lon, precision)
}

// MGRSToGeographic returns the centre of the referenced grid square.
func MGRSToGeographic(s string) (models.GeographicCoordinate, error) {
	lat, lon, err := mgrs.Decode(s)
	if err != nil {
		return models.GeographicCoordinate{}, err
	}
	return models.GeographicCoordinate{Lat: lat, Lon: lon}, nil
}
