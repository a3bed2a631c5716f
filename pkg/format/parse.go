package format

import (
	"strconv"
	"strings"

	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/models"
	"github.com/kass/geoconv/pkg/projection"
	"github.com/rotisserie/eris"
)

// ErrUnrecognized is returned by Parse for text that matches no grammar and
// is too short to be an address.
var ErrUnrecognized = eris.New("unrecognized input")

// Parse classifies the text and decodes it with the first matching grammar.
// Text that matches no grammar comes back as an address.
func Parse(input string) (models.ParsedInput, error) {
	s := Normalize(input)
	if g, ok := match(s); ok {
		return g.decode(g.Pattern.FindStringSubmatch(s))
	}
	if Classify(s) == models.FormatAddress {
		return models.ParsedInput{Format: models.FormatAddress, Text: s}, nil
	}
	return models.ParsedInput{}, eris.Wrapf(ErrUnrecognized, "parse %q", input)
}

// ParseGeographic decodes any of the geographic spellings.
func ParseGeographic(input string) (models.GeographicCoordinate, error) {
	p, err := parseAs(input, models.FormatGeographic)
	if err != nil {
		return models.GeographicCoordinate{}, err
	}
	return p.Geographic, nil
}

// ParseUTM decodes a zone, band, easting and northing.
func ParseUTM(input string) (models.UTMCoordinate, error) {
	p, err := parseAs(input, models.FormatUTM)
	if err != nil {
		return models.UTMCoordinate{}, err
	}
	return p.UTM, nil
}

// ParseMGRS checks the grid reference grammar and returns the reference in
// canonical upper-case spaced form. Digit-level checks are left to the codec.
func ParseMGRS(input string) (string, error) {
	p, err := parseAs(input, models.FormatMGRS)
	if err != nil {
		return "", err
	}
	return p.MGRS, nil
}

func parseAs(input string, f models.DetectedFormat) (models.ParsedInput, error) {
	s := Normalize(input)
	for _, g := range grammars {
		if g.Format != f || !g.Match(s) {
			continue
		}
		return g.decode(g.Pattern.FindStringSubmatch(s))
	}
	return models.ParsedInput{}, models.MalformedInputf("%q is not a %s coordinate", input, f)
}

func decodeDecimal(m []string) (models.ParsedInput, error) {
	lat, err := parseNumber(m[1])
	if err != nil {
		return models.ParsedInput{}, err
	}
	lon, err := parseNumber(m[2])
	if err != nil {
		return models.ParsedInput{}, err
	}
	return geographic(lat, lon)
}

func decodeEuropean(m []string) (models.ParsedInput, error) {
	return decodeDecimal([]string{
		m[0],
		strings.Replace(m[1], ",", ".", 1),
		strings.Replace(m[2], ",", ".", 1),
	})
}

// decodeDMS reads two degree/minute/second groups. The hemisphere letters,
// not the order, decide which group is latitude.
func decodeDMS(m []string) (models.ParsedInput, error) {
	a, err := dmsValue(m[1], m[2], m[3], m[4])
	if err != nil {
		return models.ParsedInput{}, err
	}
	b, err := dmsValue(m[5], m[6], m[7], m[8])
	if err != nil {
		return models.ParsedInput{}, err
	}

	aLat, bLat := isLatLetter(m[4]), isLatLetter(m[8])
	switch {
	case aLat && !bLat:
		return geographic(a, b)
	case !aLat && bLat:
		return geographic(b, a)
	default:
		return models.ParsedInput{}, models.MalformedInputf("hemispheres %s and %s do not name one latitude and one longitude", m[4], m[8])
	}
}

func dmsValue(deg, min, sec, hemi string) (float64, error) {
	d, err := parseNumber(deg)
	if err != nil {
		return 0, err
	}
	mn, err := parseNumber(min)
	if err != nil {
		return 0, err
	}
	var s float64
	if sec != "" {
		if s, err = parseNumber(sec); err != nil {
			return 0, err
		}
	}
	if mn >= 60 || s >= 60 {
		return 0, models.OutOfRangef("minutes %s or seconds %s not below 60", min, sec)
	}

	v := d + mn/60 + s/3600
	switch strings.ToUpper(hemi) {
	case "S", "W":
		v = -v
	}
	return v, nil
}

func isLatLetter(h string) bool {
	h = strings.ToUpper(h)
	return h == "N" || h == "S"
}

func geographic(lat, lon float64) (models.ParsedInput, error) {
	g := models.GeographicCoordinate{Lat: lat, Lon: lon}
	if err := g.Validate(); err != nil {
		return models.ParsedInput{}, err
	}
	return models.ParsedInput{Format: models.FormatGeographic, Geographic: g}, nil
}

func decodeUTM(m []string) (models.ParsedInput, error) {
	zone, err := strconv.Atoi(m[1])
	if err != nil {
		return models.ParsedInput{}, models.MalformedInputf("zone %q", m[1])
	}
	if zone < projection.MinZone || zone > projection.MaxZone {
		return models.ParsedInput{}, models.OutOfRangef("zone %d outside %d..%d", zone, projection.MinZone, projection.MaxZone)
	}
	band := strings.ToUpper(m[2])[0]
	if strings.IndexByte(gzd.Bands, band) < 0 {
		return models.ParsedInput{}, models.InvalidZoneFormatf("band %q is not a latitude band", band)
	}
	easting, err := strconv.Atoi(m[3])
	if err != nil {
		return models.ParsedInput{}, models.MalformedInputf("easting %q", m[3])
	}
	northing, err := strconv.Atoi(m[4])
	if err != nil {
		return models.ParsedInput{}, models.MalformedInputf("northing %q", m[4])
	}
	return models.ParsedInput{
		Format: models.FormatUTM,
		UTM: models.UTMCoordinate{
			ZoneNumber: zone,
			Band:       band,
			Easting:    easting,
			Northing:   northing,
		},
	}, nil
}

func decodeMGRS(m []string) (models.ParsedInput, error) {
	ref := strings.ToUpper(strings.Join([]string{m[1] + m[2], m[3], m[4], m[5]}, " "))
	return models.ParsedInput{Format: models.FormatMGRS, MGRS: ref}, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, models.MalformedInputf("number %q", s)
	}
	return v, nil
}
