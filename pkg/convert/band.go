package convert

import (
	"math"

	"github.com/kass/geoconv/pkg/gzd"
)

const bandHeight = 8.0

// LatitudeBand returns the UTM latitude band letter for a latitude. Bands
// are 8° tall from C at -80° to X, which is stretched to 84°. Latitudes at
// or above 84° still report X and anything below -72° reports C.
func LatitudeBand(lat float64) byte {
	if !(lat >= -72) {
		return gzd.Bands[0]
	}
	i := int(math.Floor((lat - gzd.MinLat) / bandHeight))
	if i >= len(gzd.Bands) {
		i = len(gzd.Bands) - 1
	}
	return gzd.Bands[i]
}
