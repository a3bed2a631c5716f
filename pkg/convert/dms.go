package convert

import (
	"fmt"
	"math"
)

// DecimalToDMS renders each axis as degrees, whole minutes and seconds to
// one decimal with a hemisphere letter, e.g. 52°31'12.0"N.
func DecimalToDMS(lat, lon float64) (string, string) {
	return dms(lat, 'N', 'S'), dms(lon, 'E', 'W')
}

// FormatDMS joins both axes with ", ".
func FormatDMS(lat, lon float64) string {
	a, b := DecimalToDMS(lat, lon)
	return a + ", " + b
}

func dms(v float64, pos, neg byte) string {
	hemi := pos
	if v < 0 {
		hemi = neg
	}
	abs := math.Abs(v)
	deg := math.Trunc(abs)
	minutes := (abs - deg) * 60
	m := math.Trunc(minutes)
	sec := math.Round((minutes-m)*60*10) / 10

	// Rounding can push seconds to 60.0; carry into minutes and degrees.
	if sec >= 60 {
		sec = 0
		m++
	}
	if m >= 60 {
		m = 0
		deg++
	}
	return fmt.Sprintf("%d°%d'%.1f\"%c", int(deg), int(m), sec, hemi)
}
