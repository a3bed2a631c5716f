// Package mgrs encodes and decodes Military Grid Reference System strings
// on top of the UTM projection registry and the grid zone index.
package mgrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/models"
	"github.com/kass/geoconv/pkg/projection"
	"github.com/rotisserie/eris"
)

// Codec errors.
var (
	ErrInvalidGrid = eris.New("invalid mgrs grid reference")
	ErrPolarRegion = eris.New("mgrs is undefined in the polar regions")
	ErrPrecision   = eris.New("mgrs precision must be between 1 and 5")
)

const (
	// DefaultPrecision gives five easting and five northing digits, one metre.
	DefaultPrecision = 5
	MaxPrecision     = 5

	squareSize   = 100000.0
	northingRing = 2000000.0
	rowLetters   = "ABCDEFGHJKLMNPQRSTUV"
	// bandSlack is how far, in degrees, a decoded point may fall outside
	// its band before the reference is rejected.
	bandSlack = 1.0
)

// Column letters repeat every three zones.
var columnSets = [3]string{"ABCDEFGH", "JKLMNPQR", "STUVWXYZ"}

var gridPattern = regexp.MustCompile(`^(\d{1,2})([C-HJ-NP-X])([A-HJ-NP-Z])([A-HJ-NP-V])(\d{0,10})$`)

func columnLetters(zone int) string {
	return columnSets[(zone-1)%3]
}

// Encode converts a WGS84 coordinate to a compact grid reference such as
// "33UUU9177920072". Digits are truncated, not rounded, so the reference
// names the square that contains the point.
func Encode(lat, lon float64, precision int) (string, error) {
	if precision < 1 || precision > MaxPrecision {
		return "", eris.Wrapf(ErrPrecision, "got %d", precision)
	}
	if !models.ValidLatLon(lat, lon) {
		return "", models.OutOfRangef("coordinate %g, %g", lat, lon)
	}

	zone, ok := gzd.Default().ZoneAt(lat, lon)
	if !ok {
		return "", eris.Wrapf(ErrPolarRegion, "latitude %g", lat)
	}

	e, n, err := projection.ProjectToUTM(lat, lon, zone.Number, projection.HemisphereOf(lat))
	if err != nil {
		return "", err
	}
	easting := int(math.Floor(e))
	northing := int(math.Floor(n))

	col := easting / int(squareSize)
	cols := columnLetters(zone.Number)
	if col < 1 || col > len(cols) {
		return "", eris.Wrapf(ErrInvalidGrid, "easting %d outside zone %d", easting, zone.Number)
	}

	row := (northing / int(squareSize)) % len(rowLetters)
	if zone.Number%2 == 0 {
		row = (row + 5) % len(rowLetters)
	}

	cell := int(math.Pow10(MaxPrecision - precision))
	return fmt.Sprintf("%s%c%c%0*d%0*d",
		zone.Designator(),
		cols[col-1],
		rowLetters[row],
		precision, (easting%int(squareSize))/cell,
		precision, (northing%int(squareSize))/cell,
	), nil
}

// Reference is a decoded grid reference.
type Reference struct {
	Zone      int
	Band      byte
	Square    string // two letter 100 km square identifier
	Easting   string
	Northing  string
	Precision int
}

// String renders the spaced form, "33T WN 00000 00000".
func (r Reference) String() string {
	if r.Precision == 0 {
		return fmt.Sprintf("%d%c %s", r.Zone, r.Band, r.Square)
	}
	return fmt.Sprintf("%d%c %s %s %s", r.Zone, r.Band, r.Square, r.Easting, r.Northing)
}

// Compact renders the form without spaces, "33TWN0000000000".
func (r Reference) Compact() string {
	return strings.ReplaceAll(r.String(), " ", "")
}

// Split parses a spaced or compact grid reference without projecting it.
func Split(s string) (Reference, error) {
	fields := strings.Fields(strings.ToUpper(s))
	m := gridPattern.FindStringSubmatch(strings.Join(fields, ""))
	if m == nil {
		return Reference{}, eris.Wrapf(ErrInvalidGrid, "%q", s)
	}
	digits := m[5]
	if len(digits)%2 != 0 || !digitGroupsAgree(fields, digits) {
		return Reference{}, eris.Wrapf(ErrInvalidGrid, "%q has unequal easting and northing digits", s)
	}

	zone, _ := strconv.Atoi(m[1])
	if zone < projection.MinZone || zone > projection.MaxZone {
		return Reference{}, eris.Wrapf(ErrInvalidGrid, "zone %d", zone)
	}
	if !strings.Contains(columnLetters(zone), m[3]) {
		return Reference{}, eris.Wrapf(ErrInvalidGrid, "column %s is not used in zone %d", m[3], zone)
	}

	p := len(digits) / 2
	return Reference{
		Zone:      zone,
		Band:      m[2][0],
		Square:    m[3] + m[4],
		Easting:   digits[:p],
		Northing:  digits[p:],
		Precision: p,
	}, nil
}

// digitGroupsAgree reports whether separately written easting and northing
// fields have the same length and are the only digits after the square.
func digitGroupsAgree(fields []string, digits string) bool {
	var groups []string
	for i := len(fields) - 1; i >= 0 && isDigits(fields[i]); i-- {
		groups = append([]string{fields[i]}, groups...)
	}
	switch len(groups) {
	case 0:
		return true
	case 1:
		return groups[0] == digits
	case 2:
		return len(groups[0]) == len(groups[1]) && groups[0]+groups[1] == digits
	default:
		return false
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Format normalizes a grid reference to its spaced form.
func Format(s string) (string, error) {
	ref, err := Split(s)
	if err != nil {
		return "", err
	}
	return ref.String(), nil
}

// Decode returns the centre of the square a grid reference names.
func Decode(s string) (lat, lon float64, err error) {
	ref, err := Split(s)
	if err != nil {
		return 0, 0, err
	}
	return ref.Centre()
}

// Centre projects the middle of the referenced square back to WGS84.
func (r Reference) Centre() (lat, lon float64, err error) {
	south, north, ok := gzd.BandBounds(r.Band)
	if !ok {
		return 0, 0, eris.Wrapf(ErrInvalidGrid, "band %c", r.Band)
	}

	cell := math.Pow10(MaxPrecision - r.Precision)
	offsetE, offsetN := 0.0, 0.0
	if r.Precision > 0 {
		e, _ := strconv.Atoi(r.Easting)
		n, _ := strconv.Atoi(r.Northing)
		offsetE, offsetN = float64(e)*cell, float64(n)*cell
	}

	col := strings.IndexByte(columnLetters(r.Zone), r.Square[0])
	row := strings.IndexByte(rowLetters, r.Square[1])
	if r.Zone%2 == 0 {
		row = (row - 5 + len(rowLetters)) % len(rowLetters)
	}

	easting := float64(col+1)*squareSize + offsetE + cell/2
	h := projection.HemisphereOfBand(r.Band)
	maxNorthing := projection.SouthFalseN

	// The row letters repeat every 2000 km; pick the repetition that lands
	// inside the band.
	bestDist := math.Inf(1)
	for base := float64(row) * squareSize; base < maxNorthing; base += northingRing {
		candLat, candLon, err := projection.ProjectToGeographic(r.Zone, h, easting, base+offsetN+cell/2)
		if err != nil {
			return 0, 0, err
		}
		dist := 0.0
		if candLat < south {
			dist = south - candLat
		} else if candLat > north {
			dist = candLat - north
		}
		if dist < bestDist {
			bestDist, lat, lon = dist, candLat, candLon
		}
	}

	if bestDist > bandSlack {
		return 0, 0, eris.Wrapf(ErrInvalidGrid, "%s does not fall in band %c", r.Compact(), r.Band)
	}
	return lat, lon, nil
}
