package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kass/geoconv/pkg/format"
	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/mgrs"
	"github.com/kass/geoconv/pkg/models"
	"github.com/rotisserie/eris"
)

// ErrNeedsGeocoding is returned when the input is a place name. Resolving
// names to coordinates is left to an external geocoder.
var ErrNeedsGeocoding = eris.New("address input needs geocoding")

const googleMapsURL = "https://maps.google.com/?q=%s,%s"

// Options controls how results are rendered.
type Options struct {
	// Precision is the number of MGRS digit pairs in Result.MGRS.
	Precision int
	// MapCentrePrecision is the coarser MGRS precision in Result.MapCentre.
	MapCentrePrecision int
}

// DefaultOptions renders 1 m MGRS references and a 10 m map centre.
func DefaultOptions() Options {
	return Options{Precision: mgrs.DefaultPrecision, MapCentrePrecision: 4}
}

// Result is one position described in every supported notation.
type Result struct {
	Input         string                      `json:"input,omitempty" yaml:"input,omitempty"`
	Format        models.DetectedFormat       `json:"format" yaml:"format"`
	Geographic    models.GeographicCoordinate `json:"geographic" yaml:"geographic"`
	Decimal       string                      `json:"decimal" yaml:"decimal"`
	DMS           string                      `json:"dms" yaml:"dms"`
	UTM           string                      `json:"utm,omitempty" yaml:"utm,omitempty"`
	MGRS          string                      `json:"mgrs,omitempty" yaml:"mgrs,omitempty"`
	MapCentre     string                      `json:"map_centre,omitempty" yaml:"map_centre,omitempty"`
	Zone          string                      `json:"zone,omitempty" yaml:"zone,omitempty"`
	GoogleMapsURL string                      `json:"google_maps_url" yaml:"google_maps_url"`
	GeoURI        string                      `json:"geo_uri" yaml:"geo_uri"`
	Warnings      []string                    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Converter runs the pipeline with fixed Options. It holds no mutable state
// and is safe for concurrent use.
type Converter struct {
	opts Options
}

// New returns a Converter. Precisions outside 1..5 fall back to the defaults.
func New(opts Options) *Converter {
	def := DefaultOptions()
	if opts.Precision < 1 || opts.Precision > mgrs.MaxPrecision {
		opts.Precision = def.Precision
	}
	if opts.MapCentrePrecision < 1 || opts.MapCentrePrecision > mgrs.MaxPrecision {
		opts.MapCentrePrecision = def.MapCentrePrecision
	}
	return &Converter{opts: opts}
}

// Options returns the effective options.
func (c *Converter) Options() Options {
	return c.opts
}

var defaultConverter = New(DefaultOptions())

// Convert runs the pipeline with DefaultOptions.
func Convert(input string) (Result, error) {
	return defaultConverter.Convert(input)
}

// Convert parses the input, resolves it to a coordinate and describes it.
func (c *Converter) Convert(input string) (Result, error) {
	p, err := format.Parse(input)
	if err != nil {
		return Result{}, err
	}
	g, err := Resolve(p)
	if err != nil {
		return Result{}, err
	}
	r, err := c.Describe(g)
	if err != nil {
		return Result{}, err
	}
	r.Input = format.Normalize(input)
	r.Format = p.Format
	return r, nil
}

// Resolve turns parsed input into a geographic coordinate.
func Resolve(p models.ParsedInput) (models.GeographicCoordinate, error) {
	switch p.Format {
	case models.FormatGeographic:
		if err := p.Geographic.Validate(); err != nil {
			return models.GeographicCoordinate{}, err
		}
		return p.Geographic, nil
	case models.FormatUTM:
		return UTMToGeographic(p.UTM)
	case models.FormatMGRS:
		return MGRSToGeographic(p.MGRS)
	case models.FormatAddress:
		return models.GeographicCoordinate{}, eris.Wrapf(ErrNeedsGeocoding, "%q", p.Text)
	default:
		return models.GeographicCoordinate{}, eris.Wrapf(format.ErrUnrecognized, "format %s", p.Format)
	}
}

// Describe renders a coordinate in every notation. A notation that cannot
// represent the position, such as MGRS near the poles, is left empty and
// explained in Warnings.
func (c *Converter) Describe(g models.GeographicCoordinate) (Result, error) {
	if err := g.Validate(); err != nil {
		return Result{}, err
	}

	lat, lon := strconv.FormatFloat(g.Lat, 'f', -1, 64), strconv.FormatFloat(g.Lon, 'f', -1, 64)
	r := Result{
		Format:        models.FormatGeographic,
		Geographic:    g,
		Decimal:       g.String(),
		DMS:           FormatDMS(g.Lat, g.Lon),
		GoogleMapsURL: fmt.Sprintf(googleMapsURL, lat, lon),
		GeoURI:        fmt.Sprintf("geo:%.6f,%.6f", g.Lat, g.Lon),
	}

	if u, err := GeographicToUTM(g); err != nil {
		r.Warnings = append(r.Warnings, "utm: "+err.Error())
	} else {
		r.UTM = u.String()
	}

	if s, err := spacedMGRS(g, c.opts.Precision); err != nil {
		r.Warnings = append(r.Warnings, "mgrs: "+err.Error())
	} else {
		r.MGRS = s
		if centre, err := spacedMGRS(g, c.opts.MapCentrePrecision); err != nil {
			r.Warnings = append(r.Warnings, "map centre: "+err.Error())
		} else {
			r.MapCentre = centre
		}
	}

	if z, ok := gzd.Default().ZoneAt(g.Lat, g.Lon); ok {
		r.Zone = z.Designator()
	}
	return r, nil
}

// spacedMGRS encodes g in the spaced form that Classify recognizes.
func spacedMGRS(g models.GeographicCoordinate, precision int) (string, error) {
	s, err := GeographicToMGRS(g, precision)
	if err != nil {
		return "", err
	}
	return mgrs.Format(s)
}

// Describe renders with DefaultOptions.
func Describe(g models.GeographicCoordinate) (Result, error) {
	return defaultConverter.Describe(g)
}

// FromQuery reads the lat and lng query parameters of a shared link.
func FromQuery(lat, lng string) (models.GeographicCoordinate, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return models.GeographicCoordinate{}, models.MalformedInputf("lat %q", lat)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return models.GeographicCoordinate{}, models.MalformedInputf("lng %q", lng)
	}
	g := models.GeographicCoordinate{Lat: la, Lon: lo}
	if err := g.Validate(); err != nil {
		return models.GeographicCoordinate{}, err
	}
	return g, nil
}
