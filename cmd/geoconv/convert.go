package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/kass/geoconv/pkg/convert"
	"github.com/kass/geoconv/pkg/export"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	convertOutput    string
	convertPrecision int
)

var convertCmd = &cobra.Command{
	Use:   "convert <text>",
	Short: "Convert a coordinate to every supported notation",
	Long: `Convert reads one coordinate in any supported notation and prints it as
decimal degrees, DMS, UTM and MGRS together with a map link.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("precision") {
			cfg.Convert.MGRSPrecision = convertPrecision
		}
		input := strings.Join(args, " ")

		res, err := converter().Convert(input)
		if err != nil {
			zap.L().Debug("convert failed", zap.String("input", input), zap.Error(err))
			return err
		}
		return writeResult(cmd.OutOrStdout(), res, convertOutput)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "text", "output format: text, json, yaml, geojson, wkt")
	convertCmd.Flags().IntVar(&convertPrecision, "precision", 5, "MGRS digit pairs, 1 (10 km) to 5 (1 m)")
	rootCmd.AddCommand(convertCmd)
}

func writeResult(w io.Writer, res convert.Result, output string) error {
	var (
		data []byte
		err  error
	)
	switch output {
	case "text":
		return writeText(w, res, terminalPalette(w))
	case "json":
		data, err = export.JSON(res)
	case "yaml":
		data, err = export.YAML(res)
	case "geojson":
		data, err = export.GeoJSON(res)
		data = append(data, '\n')
	case "wkt":
		var s string
		s, err = export.WKT(res)
		data = []byte(s + "\n")
	default:
		return eris.Errorf("unknown output format %q", output)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeText(w io.Writer, res convert.Result, p palette) error {
	type row struct {
		label, value string
		warn         bool
	}
	rows := []row{
		{label: "Input", value: fmt.Sprintf("%s (%s)", res.Input, res.Format)},
		{label: "Decimal", value: res.Decimal},
		{label: "DMS", value: res.DMS},
		{label: "UTM", value: res.UTM},
		{label: "MGRS", value: res.MGRS},
		{label: "Map centre", value: res.MapCentre},
		{label: "Zone", value: res.Zone},
		{label: "Google Maps", value: res.GoogleMapsURL},
		{label: "geo URI", value: res.GeoURI},
	}
	for _, warning := range res.Warnings {
		rows = append(rows, row{label: "Warning", value: warning, warn: true})
	}

	for _, r := range rows {
		if r.value == "" {
			continue
		}
		colour := p.label
		if r.warn {
			colour = p.warn
		}
		if _, err := fmt.Fprintf(w, "%s%-12s%s %s\n", colour, r.label+":", p.reset, r.value); err != nil {
			return err
		}
	}
	return nil
}
