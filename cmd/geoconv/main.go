package main

import (
	"os"

	"github.com/kass/geoconv/pkg/config"
	"github.com/kass/geoconv/pkg/convert"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg *config.Config

	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "geoconv",
	Short: "Detect and convert geographic coordinate notations",
	Long:  `Recognizes decimal and DMS latitude/longitude, UTM and MGRS input and converts it to every other notation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if cmd.Flags().Changed("log-level") {
			c.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			c.Log.Format = logFormat
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format: json or console")
}

// converter builds a Converter from the loaded configuration.
func converter() *convert.Converter {
	return convert.New(convert.Options{
		Precision:          cfg.Convert.MGRSPrecision,
		MapCentrePrecision: cfg.Convert.MapCentrePrecision,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
