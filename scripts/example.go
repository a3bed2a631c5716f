package main

import (
	"fmt"
	"log"

	"github.com/kass/geoconv/pkg/convert"
	"github.com/kass/geoconv/pkg/format"
	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/models"
)

func main() {
	// The same places written in different notations
	inputs := []string{
		"40.7128, -74.0060",
		"34.0522 -118.2437",
		"lat: 41.8781, lng: -87.6298",
		`29°45'37.4"N, 95°22'11.3"W`,
		"12S 400373 3701786",
		"18S UJ 23390 07393",
		"52,5200; 13,4050",
		"緯度: 35.6812, 経度: 139.7671",
		"Brandenburger Tor, Berlin",
	}

	// Example 1: Detect the notation of each input
	fmt.Println("Detected formats:")
	for _, in := range inputs {
		fmt.Printf("  %-32s %s\n", in, format.Classify(in))
	}

	// Example 2: Convert each input to every notation
	fmt.Println("\nConversions:")
	for _, in := range inputs {
		res, err := convert.Convert(in)
		if err != nil {
			fmt.Printf("  %s: %v\n", in, err)
			continue
		}
		fmt.Printf("  %s\n", in)
		fmt.Printf("    Decimal: %s\n", res.Decimal)
		fmt.Printf("    DMS:     %s\n", res.DMS)
		fmt.Printf("    UTM:     %s\n", res.UTM)
		fmt.Printf("    MGRS:    %s\n", res.MGRS)
	}

	// Example 3: Direct conversions
	utm, err := convert.GeographicToUTM(models.GeographicCoordinate{Lat: 52.52, Lon: 13.405})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nBerlin in UTM: %s\n", utm)

	ref, err := convert.GeographicToMGRS(models.GeographicCoordinate{Lat: 52.52, Lon: 13.405}, 3)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Berlin in MGRS (100 m): %s\n", ref)

	// Example 4: Grid zones covering Scandinavia, including the 32V exception
	box := models.BoundingBox{
		BottomLeft: models.GeographicCoordinate{Lat: 56, Lon: 0},
		TopRight:   models.GeographicCoordinate{Lat: 64, Lon: 12},
	}
	zones, err := gzd.Default().QueryBox(box)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nGrid zones between 56°N-64°N and 0°E-12°E:\n")
	for _, z := range zones {
		fmt.Printf("  %s: lon %.0f..%.0f\n", z.Designator(), z.Bounds.BottomLeft.Lon, z.Bounds.TopRight.Lon)
	}
}
