package mgrs

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/kass/geoconv/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		name     string
		lat, lon float64
		expected string
	}{
		{"null island", 0, 0, "31NAA6602100000"},
		{"central meridian", 42, 15, "33TWG0000049776"},
		{"berlin", 52.52, 13.405, "33UUU9177920072"},
		{"sydney", -33.8688, 151.2093, "56HLH3436850948"},
		{"washington", 38.897676, -77.036548, "18SUJ2339007393"},
		{"bergen uses 32V", 59.9, 5.5, "32VLM0424945449"},
		{"svalbard uses 33X", 78, 10, "33XUG8408563320"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.lat, tc.lon, DefaultPrecision)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEncodePrecision(t *testing.T) {
	got, err := Encode(52.52, 13.405, 1)
	require.NoError(t, err)
	assert.Equal(t, "33UUU92", got)

	got, err = Encode(52.52, 13.405, 3)
	require.NoError(t, err)
	assert.Equal(t, "33UUU917200", got)

	for _, p := range []int{0, 6, -1} {
		_, err := Encode(52.52, 13.405, p)
		assert.ErrorIs(t, err, ErrPrecision, "precision %d", p)
	}
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(85, 0, DefaultPrecision)
	assert.ErrorIs(t, err, ErrPolarRegion)

	_, err = Encode(-81, 0, DefaultPrecision)
	assert.ErrorIs(t, err, ErrPolarRegion)

	_, err = Encode(0, 190, DefaultPrecision)
	assert.ErrorIs(t, err, models.ErrOutOfRange)
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		lat, lon float64
	}{
		{"compact", "33TWG0000049776", 42, 15},
		{"spaced", "33T WG 00000 49776", 42, 15},
		{"lower case", "33twg0000049776", 42, 15},
		{"southern", "56HLH3436850948", -33.8688, 151.2093},
		{"even zone row offset", "32VLM0424945449", 59.9, 5.5},
		{"single digit zone", "1CDM4324728161", -79.9, -179.9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lat, lon, err := Decode(tc.input)
			require.NoError(t, err)
			assert.InDelta(t, tc.lat, lat, 1e-4)
			assert.InDelta(t, tc.lon, lon, 1e-4)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"33TWG000004977",  // odd digit count
		"61TWG0000049776", // zone
		"0TWG0000049776",  // zone
		"33IWG0000049776", // band I
		"33TAG0000049776", // column A is not used in zone 33
		"33TWW0000049776", // row W does not exist
		"33CWG0000049776", // square is nowhere near band C
		"32U MV 123 45678",
		"32U MV 12345 678",
		"32U MV 1 12345",
		"32U MV 12 34 56",
		"32UMV12 34",
		"hello",
	} {
		t.Run(input, func(t *testing.T) {
			_, _, err := Decode(input)
			assert.ErrorIs(t, err, ErrInvalidGrid)
		})
	}
}

func TestSplitAndFormat(t *testing.T) {
	ref, err := Split("33uUu 917 200")
	require.NoError(t, err)
	assert.Equal(t, 33, ref.Zone)
	assert.Equal(t, byte('U'), ref.Band)
	assert.Equal(t, "UU", ref.Square)
	assert.Equal(t, 3, ref.Precision)
	assert.Equal(t, "917", ref.Easting)
	assert.Equal(t, "200", ref.Northing)
	assert.Equal(t, "33UUU917200", ref.Compact())

	formatted, err := Format("33UUU9177920072")
	require.NoError(t, err)
	assert.Equal(t, "33U UU 91779 20072", formatted)

	ref, err = Split("32U MV 1234 5678")
	require.NoError(t, err)
	assert.Equal(t, "1234", ref.Easting)
	assert.Equal(t, "5678", ref.Northing)

	formatted, err = Format("33UUU")
	require.NoError(t, err)
	assert.Equal(t, "33U UU", formatted)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for precision := 1; precision <= MaxPrecision; precision++ {
		t.Run(fmt.Sprintf("precision %d", precision), func(t *testing.T) {
			tolerance := math.Pow10(MaxPrecision - precision)
			for i := 0; i < 500; i++ {
				lat := rng.Float64()*163.8 - 79.9
				lon := rng.Float64()*359.8 - 179.9

				grid, err := Encode(lat, lon, precision)
				require.NoError(t, err)

				gotLat, gotLon, err := Decode(grid)
				require.NoError(t, err, grid)

				assert.LessOrEqual(t, metres(lat, lon, gotLat, gotLon), tolerance, "%s from %f,%f", grid, lat, lon)
			}
		})
	}
}

// metres is an equirectangular distance, adequate at the sizes tested here.
func metres(lat1, lon1, lat2, lon2 float64) float64 {
	const degree = 111320.0
	dy := (lat2 - lat1) * degree
	dx := (lon2 - lon1) * degree * math.Cos(lat1*math.Pi/180)
	return math.Hypot(dx, dy)
}
