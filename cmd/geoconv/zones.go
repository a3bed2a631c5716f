package main

import (
	"fmt"
	"io"

	"github.com/kass/geoconv/pkg/export"
	"github.com/kass/geoconv/pkg/format"
	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/models"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	zonesBBox   string
	zonesAt     string
	zonesOutput string
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Look up MGRS grid zone designators",
	Long: `Zones lists the grid zones that intersect a bounding box (--bbox
minLon,minLat,maxLon,maxLat) or the zone containing a point (--at, any
geographic notation). Without flags every zone is listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		zones, err := lookupZones(gzd.Default(), zonesBBox, zonesAt)
		if err != nil {
			return err
		}
		return writeZones(cmd.OutOrStdout(), zones, zonesOutput)
	},
}

func init() {
	zonesCmd.Flags().StringVar(&zonesBBox, "bbox", "", "bounding box minLon,minLat,maxLon,maxLat")
	zonesCmd.Flags().StringVar(&zonesAt, "at", "", "point in any geographic notation")
	zonesCmd.Flags().StringVarP(&zonesOutput, "output", "o", "text", "output format: text or geojson")
	zonesCmd.MarkFlagsMutuallyExclusive("bbox", "at")
	rootCmd.AddCommand(zonesCmd)
}

func lookupZones(idx *gzd.Index, bbox, at string) ([]gzd.Zone, error) {
	switch {
	case at != "":
		g, err := format.ParseGeographic(at)
		if err != nil {
			return nil, err
		}
		z, ok := idx.ZoneAt(g.Lat, g.Lon)
		if !ok {
			return nil, eris.Errorf("no grid zone at %s", g)
		}
		return []gzd.Zone{z}, nil
	case bbox != "":
		box, err := models.ParseBoundingBox(bbox)
		if err != nil {
			return nil, err
		}
		return idx.QueryBox(box)
	default:
		return idx.QueryBox(models.BoundingBox{
			BottomLeft: models.GeographicCoordinate{Lat: gzd.MinLat, Lon: -180},
			TopRight:   models.GeographicCoordinate{Lat: gzd.MaxLat, Lon: 180},
		})
	}
}

func writeZones(w io.Writer, zones []gzd.Zone, output string) error {
	switch output {
	case "text":
		for _, z := range zones {
			bl, tr := z.Bounds.BottomLeft, z.Bounds.TopRight
			if _, err := fmt.Fprintf(w, "%-4s lat %6.1f .. %6.1f  lon %7.1f .. %7.1f\n",
				z.Designator(), bl.Lat, tr.Lat, bl.Lon, tr.Lon); err != nil {
				return err
			}
		}
		return nil
	case "geojson":
		data, err := export.ZonesGeoJSON(zones)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return eris.Errorf("unknown output format %q", output)
	}
}
