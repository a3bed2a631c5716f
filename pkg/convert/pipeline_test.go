package convert

import (
	"sync"
	"testing"

	"github.com/kass/geoconv/pkg/format"
	"github.com/kass/geoconv/pkg/mgrs"
	"github.com/kass/geoconv/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertGeographic(t *testing.T) {
	r, err := Convert("52.52, 13.405")
	require.NoError(t, err)

	assert.Equal(t, "52.52, 13.405", r.Input)
	assert.Equal(t, models.FormatGeographic, r.Format)
	assert.Equal(t, models.GeographicCoordinate{Lat: 52.52, Lon: 13.405}, r.Geographic)
	assert.Equal(t, "52.520000, 13.405000", r.Decimal)
	assert.Equal(t, `52°31'12.0"N, 13°24'18.0"E`, r.DMS)
	assert.Equal(t, "33U 391779 5820072", r.UTM)
	assert.Equal(t, "33U UU 91779 20072", r.MGRS)
	assert.Equal(t, "33U UU 9177 2007", r.MapCentre)
	assert.Equal(t, "33U", r.Zone)
	assert.Equal(t, "https://maps.google.com/?q=52.52,13.405", r.GoogleMapsURL)
	assert.Equal(t, "geo:52.520000,13.405000", r.GeoURI)
	assert.Empty(t, r.Warnings)
}

func TestConvertUTM(t *testing.T) {
	r, err := Convert("33T 500000 4649776")
	require.NoError(t, err)

	assert.Equal(t, models.FormatUTM, r.Format)
	assert.InDelta(t, 42.0, r.Geographic.Lat, 1e-5)
	assert.InDelta(t, 15.0, r.Geographic.Lon, 1e-9)
	assert.Equal(t, "33T 500000 4649776", r.UTM)
	assert.Equal(t, "33T", r.Zone)
}

func TestConvertMGRS(t *testing.T) {
	r, err := Convert("33u uu 91779 20072")
	require.NoError(t, err)

	assert.Equal(t, models.FormatMGRS, r.Format)
	assert.LessOrEqual(t, metres(models.GeographicCoordinate{Lat: 52.52, Lon: 13.405}, r.Geographic), 2.0)
	assert.Equal(t, "33U UU 91779 20072", r.MGRS)
}

func TestConvertPolar(t *testing.T) {
	r, err := Convert("89, 0")
	require.NoError(t, err)

	assert.NotEmpty(t, r.UTM)
	assert.Empty(t, r.MGRS)
	assert.Empty(t, r.MapCentre)
	assert.Empty(t, r.Zone)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "mgrs")
}

func TestConvertErrors(t *testing.T) {
	testCases := []struct {
		input    string
		expected error
	}{
		{"Berlin", ErrNeedsGeocoding},
		{"a", format.ErrUnrecognized},
		{"", format.ErrUnrecognized},
		{"91, 0", models.ErrOutOfRange},
		{"33I 500000 4649776", models.ErrInvalidZoneFormat},
		{`52°31'12"N 13°24'18"S`, models.ErrMalformedInput},
		{"33T 500000 99999999", models.ErrOutOfRange},
		{"33T 9999999 4649776", models.ErrOutOfRange},
		{"32U MV 123 45678", mgrs.ErrInvalidGrid},
		{"32U MV 12345 678", mgrs.ErrInvalidGrid},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := Convert(tc.input)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestResolve(t *testing.T) {
	g, err := Resolve(models.ParsedInput{Format: models.FormatGeographic, Geographic: models.GeographicCoordinate{Lat: 1, Lon: 2}})
	require.NoError(t, err)
	assert.Equal(t, models.GeographicCoordinate{Lat: 1, Lon: 2}, g)

	_, err = Resolve(models.ParsedInput{Format: models.FormatAddress, Text: "Berlin"})
	assert.ErrorIs(t, err, ErrNeedsGeocoding)

	_, err = Resolve(models.ParsedInput{})
	assert.ErrorIs(t, err, format.ErrUnrecognized)
}

func TestDescribeMapCentreWarning(t *testing.T) {
	c := &Converter{opts: Options{Precision: 5, MapCentrePrecision: 9}}

	r, err := c.Describe(models.GeographicCoordinate{Lat: 52.52, Lon: 13.405})
	require.NoError(t, err)
	assert.Equal(t, "33U UU 91779 20072", r.MGRS)
	assert.Empty(t, r.MapCentre)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "map centre")
}

func TestConverterOptions(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultOptions(), c.Options())

	c = New(Options{Precision: 2, MapCentrePrecision: 1})
	r, err := c.Describe(models.GeographicCoordinate{Lat: 52.52, Lon: 13.405})
	require.NoError(t, err)
	assert.Equal(t, "33U UU 91 20", r.MGRS)
	assert.Equal(t, "33U UU 9 2", r.MapCentre)
	assert.Equal(t, models.FormatGeographic, r.Format)

	_, err = c.Describe(models.GeographicCoordinate{Lat: 0, Lon: 200})
	assert.ErrorIs(t, err, models.ErrOutOfRange)
}

func TestConvertConcurrent(t *testing.T) {
	inputs := []string{
		"52.52, 13.405",
		"33T 500000 4649776",
		"33U UU 91779 20072",
		`33°52'7.7"S 151°12'33.5"E`,
		"89, 0",
	}
	expected := make([]Result, len(inputs))
	for i, in := range inputs {
		r, err := Convert(in)
		require.NoError(t, err)
		expected[i] = r
	}

	var wg sync.WaitGroup
	got := make([][]Result, 8)
	for w := range got {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for _, in := range inputs {
				r, _ := Convert(in)
				got[w] = append(got[w], r)
			}
		}(w)
	}
	wg.Wait()

	for _, rs := range got {
		assert.Equal(t, expected, rs)
	}
}

func TestFromQuery(t *testing.T) {
	g, err := FromQuery("52.52", " 13.405 ")
	require.NoError(t, err)
	assert.Equal(t, models.GeographicCoordinate{Lat: 52.52, Lon: 13.405}, g)

	_, err = FromQuery("abc", "1")
	assert.ErrorIs(t, err, models.ErrMalformedInput)
	_, err = FromQuery("1", "")
	assert.ErrorIs(t, err, models.ErrMalformedInput)
	_, err = FromQuery("91", "0")
	assert.ErrorIs(t, err, models.ErrOutOfRange)
}
