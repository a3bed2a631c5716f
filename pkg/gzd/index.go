// Package gzd indexes the UTM/MGRS grid zone designator cells (zone number
// plus latitude band) in an R-Tree, including the Norway and Svalbard
// exceptions.
package gzd

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/kass/geoconv/pkg/models"
	"github.com/rotisserie/eris"
)

const (
	tolerance   = 1e-9
	minChildren = 4
	maxChildren = 16
	dimensions  = 2

	// Bands are the latitude band letters from south to north.
	Bands = "CDEFGHJKLMNPQRSTUVWX"

	MinLat    = -80.0
	MaxLat    = 84.0
	bandSize  = 8.0
	zoneWidth = 6.0
	numZones  = 60
)

// Zone is one grid zone designator cell.
type Zone struct {
	Number int                `json:"zone"`
	Band   byte               `json:"-"`
	Bounds models.BoundingBox `json:"bounds"`
}

// Designator returns e.g. "32V".
func (z Zone) Designator() string {
	return strconv.Itoa(z.Number) + string(z.Band)
}

// contains uses half-open cells. The northern edge of band X and the
// eastern edge at 180° are closed so every valid point has a cell.
func (z Zone) contains(lat, lon float64) bool {
	b := z.Bounds
	if lat < b.BottomLeft.Lat || lon < b.BottomLeft.Lon {
		return false
	}
	if lat > b.TopRight.Lat || (lat == b.TopRight.Lat && b.TopRight.Lat != MaxLat) {
		return false
	}
	if lon > b.TopRight.Lon || (lon == b.TopRight.Lon && b.TopRight.Lon != 180) {
		return false
	}
	return true
}

// intersects reports whether the cell overlaps the box. A box that only
// touches the open north or east edge of a cell does not count.
func (z Zone) intersects(box models.BoundingBox) bool {
	b := z.Bounds
	if box.TopRight.Lat < b.BottomLeft.Lat || box.TopRight.Lon < b.BottomLeft.Lon {
		return false
	}
	if box.BottomLeft.Lat > b.TopRight.Lat || (box.BottomLeft.Lat == b.TopRight.Lat && b.TopRight.Lat != MaxLat) {
		return false
	}
	if box.BottomLeft.Lon > b.TopRight.Lon || (box.BottomLeft.Lon == b.TopRight.Lon && b.TopRight.Lon != 180) {
		return false
	}
	return true
}

// spatialZone wraps a Zone to implement rtreego.Spatial interface
type spatialZone struct {
	zone Zone
	rect *rtreego.Rect
}

var _ rtreego.Spatial = (*spatialZone)(nil)

func (sz *spatialZone) Bounds() *rtreego.Rect {
	return sz.rect
}

// Index is an immutable R-Tree over every grid zone cell. It is safe for
// concurrent use once built.
type Index struct {
	tree  *rtreego.Rtree
	byKey map[string]Zone
}

// NewIndex builds the index over all 1197 grid zones.
func NewIndex() (*Index, error) {
	cells := cells()
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	byKey := make(map[string]Zone, len(cells))

	for _, z := range cells {
		b := z.Bounds
		rect, err := rtreego.NewRect(
			rtreego.Point{b.BottomLeft.Lon, b.BottomLeft.Lat},
			[]float64{b.TopRight.Lon - b.BottomLeft.Lon, b.TopRight.Lat - b.BottomLeft.Lat},
		)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid cell %s", z.Designator())
		}
		tree.Insert(&spatialZone{zone: z, rect: rect})
		byKey[z.Designator()] = z
	}

	return &Index{
		tree:  tree,
		byKey: byKey,
	}, nil
}

var (
	defaultOnce  sync.Once
	defaultIndex *Index
)

// Default returns the shared index, building it on first use.
func Default() *Index {
	defaultOnce.Do(func() {
		idx, err := NewIndex()
		if err != nil {
			// The cell table is static; a failure here is a programming error.
			panic(err)
		}
		defaultIndex = idx
	})
	return defaultIndex
}

// Count returns the number of indexed cells
func (idx *Index) Count() int {
	return len(idx.byKey)
}

// ZoneAt returns the cell containing the point. Points outside the UTM
// latitude range (-80..84) have no cell.
func (idx *Index) ZoneAt(lat, lon float64) (Zone, bool) {
	if !models.ValidLatLon(lat, lon) || lat < MinLat || lat > MaxLat {
		return Zone{}, false
	}

	results := idx.tree.SearchIntersect(rtreego.Point{lon, lat}.ToRect(tolerance))
	for _, result := range results {
		item, ok := result.(*spatialZone)
		if !ok {
			continue
		}
		if item.zone.contains(lat, lon) {
			return item.zone, true
		}
	}
	return Zone{}, false
}

// QueryBox returns every cell overlapping the box, ordered by zone number
// then band.
func (idx *Index) QueryBox(box models.BoundingBox) ([]Zone, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}

	// rtreego rejects zero-length sides, so pad degenerate boxes.
	bounds, err := rtreego.NewRect(
		rtreego.Point{box.BottomLeft.Lon - tolerance, box.BottomLeft.Lat - tolerance},
		[]float64{
			box.TopRight.Lon - box.BottomLeft.Lon + 2*tolerance,
			box.TopRight.Lat - box.BottomLeft.Lat + 2*tolerance,
		},
	)
	if err != nil {
		return nil, eris.Wrap(err, "invalid bounding box")
	}

	results := idx.tree.SearchIntersect(bounds)
	zones := make([]Zone, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialZone)
		if !ok {
			continue
		}
		if item.zone.intersects(box) {
			zones = append(zones, item.zone)
		}
	}

	sort.Slice(zones, func(i, j int) bool {
		if zones[i].Number != zones[j].Number {
			return zones[i].Number < zones[j].Number
		}
		return zones[i].Band < zones[j].Band
	})
	return zones, nil
}

// Lookup finds a cell by designator, e.g. "32V" or "4q".
func (idx *Index) Lookup(designator string) (Zone, bool) {
	z, ok := idx.byKey[strings.ToUpper(strings.TrimSpace(designator))]
	return z, ok
}

// BandBounds returns the latitude range of a band letter.
func BandBounds(band byte) (south, north float64, ok bool) {
	i := strings.IndexByte(Bands, band)
	if i < 0 {
		return 0, 0, false
	}
	south = MinLat + float64(i)*bandSize
	north = south + bandSize
	if band == 'X' {
		north = MaxLat
	}
	return south, north, true
}

// cells enumerates the grid, applying the Norway (band V) and Svalbard
// (band X) exceptions.
func cells() []Zone {
	zones := make([]Zone, 0, numZones*len(Bands))
	for i := 0; i < len(Bands); i++ {
		band := Bands[i]
		south, north, _ := BandBounds(band)
		for number := 1; number <= numZones; number++ {
			west := -180 + float64(number-1)*zoneWidth
			east := west + zoneWidth

			switch {
			case band == 'V' && number == 31:
				east = 3
			case band == 'V' && number == 32:
				west = 3
			case band == 'X' && (number == 32 || number == 34 || number == 36):
				continue
			case band == 'X' && number == 31:
				east = 9
			case band == 'X' && number == 33:
				west, east = 9, 21
			case band == 'X' && number == 35:
				west, east = 21, 33
			case band == 'X' && number == 37:
				west = 33
			}

			zones = append(zones, Zone{
				Number: number,
				Band:   band,
				Bounds: models.BoundingBox{
					BottomLeft: models.GeographicCoordinate{Lat: south, Lon: west},
					TopRight:   models.GeographicCoordinate{Lat: north, Lon: east},
				},
			})
		}
	}
	return zones
}
