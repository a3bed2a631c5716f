package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidLatLon(t *testing.T) {
	testCases := []struct {
		name     string
		lat, lon float64
		valid    bool
	}{
		{"origin", 0, 0, true},
		{"corners", -90, 180, true},
		{"other corners", 90, -180, true},
		{"lat too big", 90.0001, 0, false},
		{"lon too small", 0, -180.0001, false},
		{"nan", math.NaN(), 0, false},
		{"inf", 0, math.Inf(1), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidLatLon(tc.lat, tc.lon))
			g := GeographicCoordinate{Lat: tc.lat, Lon: tc.lon}
			if tc.valid {
				assert.NoError(t, g.Validate())
			} else {
				assert.ErrorIs(t, g.Validate(), ErrOutOfRange)
			}
		})
	}
}

func TestUTMCoordinate(t *testing.T) {
	u := UTMCoordinate{ZoneNumber: 33, Band: 'T', Easting: 500000, Northing: 4649776}
	assert.True(t, u.Northern())
	assert.Equal(t, "33T", u.Zone())
	assert.Equal(t, "33T 500000 4649776", u.String())

	u.Band = 'M'
	assert.False(t, u.Northern())
}

func TestDetectedFormat(t *testing.T) {
	assert.Equal(t, "mgrs", FormatMGRS.String())
	assert.Equal(t, "unknown", DetectedFormat(42).String())
	assert.Equal(t, FormatGeographic, ParseFormat("GPS"))
	assert.Equal(t, FormatUTM, ParseFormat(" utm "))
	assert.Equal(t, FormatUnknown, ParseFormat("nope"))

	text, err := FormatAddress.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "address", string(text))
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox{
		BottomLeft: GeographicCoordinate{Lat: 45, Lon: -5},
		TopRight:   GeographicCoordinate{Lat: 55, Lon: 10},
	}
	assert.NoError(t, box.Validate())
	assert.True(t, box.Contains(GeographicCoordinate{Lat: 51.5, Lon: -0.12}))
	assert.False(t, box.Contains(GeographicCoordinate{Lat: 40.7, Lon: -74}))

	swapped := BoundingBox{BottomLeft: box.TopRight, TopRight: box.BottomLeft}
	assert.ErrorIs(t, swapped.Validate(), ErrMalformedInput)
}

func TestParseBoundingBox(t *testing.T) {
	box, err := ParseBoundingBox(" 6, 47 ,15,55")
	require.NoError(t, err)
	assert.Equal(t, GeographicCoordinate{Lat: 47, Lon: 6}, box.BottomLeft)
	assert.Equal(t, GeographicCoordinate{Lat: 55, Lon: 15}, box.TopRight)

	testCases := []struct {
		input    string
		expected error
	}{
		{"", ErrMalformedInput},
		{"1,2,3", ErrMalformedInput},
		{"a,47,15,55", ErrMalformedInput},
		{"15,47,6,55", ErrMalformedInput},
		{"6,47,15,95", ErrOutOfRange},
	}
	for _, tc := range testCases {
		_, err := ParseBoundingBox(tc.input)
		assert.ErrorIs(t, err, tc.expected, tc.input)
	}
}

func TestErrorWrapping(t *testing.T) {
	err := OutOfRangef("zone %d", 61)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, errors.Is(err, ErrMalformedInput))
	assert.Contains(t, err.Error(), "zone 61")

	assert.ErrorIs(t, InvalidZoneFormatf("%q", "3X3"), ErrInvalidZoneFormat)
	assert.ErrorIs(t, MalformedInputf("x"), ErrMalformedInput)
}
