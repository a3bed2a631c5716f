// Package config loads geoconv settings from config.yaml and GEOCONV_*
// environment variables and sets up the global zap logger.
package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to every environment override, e.g.
// GEOCONV_SERVER_ADDR.
const EnvPrefix = "GEOCONV"

// Config holds the full application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Convert ConvertConfig `yaml:"convert" mapstructure:"convert"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Bench   BenchConfig   `yaml:"bench" mapstructure:"bench"`
	PostGIS PostGISConfig `yaml:"postgis" mapstructure:"postgis"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr             string   `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ReadTimeoutSecs  int      `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs int      `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
}

// ConvertConfig configures how results are rendered.
type ConvertConfig struct {
	MGRSPrecision      int `yaml:"mgrs_precision" mapstructure:"mgrs_precision"`
	MapCentrePrecision int `yaml:"map_centre_precision" mapstructure:"map_centre_precision"`
}

// BatchConfig configures line-by-line batch conversion.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// BenchConfig configures the round-trip benchmark.
type BenchConfig struct {
	Points  int   `yaml:"points" mapstructure:"points"`
	Workers int   `yaml:"workers" mapstructure:"workers"`
	Seed    int64 `yaml:"seed" mapstructure:"seed"`
}

// PostGISConfig configures the optional results table for batch runs. An
// empty DSN disables it.
type PostGISConfig struct {
	DSN   string `yaml:"dsn" mapstructure:"dsn"`
	Table string `yaml:"table" mapstructure:"table"`
}

// Load reads configuration from file and environment. An empty path looks
// for config.yaml in the working directory; a missing file there is not an
// error, a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout_secs", 10)
	v.SetDefault("server.write_timeout_secs", 10)
	v.SetDefault("convert.mgrs_precision", 5)
	v.SetDefault("convert.map_centre_precision", 4)
	v.SetDefault("batch.workers", 4)
	v.SetDefault("bench.points", 10000)
	v.SetDefault("bench.workers", 4)
	v.SetDefault("bench.seed", 1)
	v.SetDefault("postgis.dsn", "")
	v.SetDefault("postgis.table", "geoconv_results")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate reports every setting that is out of range.
func (c *Config) Validate() error {
	var problems []string
	if c.Convert.MGRSPrecision < 1 || c.Convert.MGRSPrecision > 5 {
		problems = append(problems, fmt.Sprintf("convert.mgrs_precision must be 1..5, got %d", c.Convert.MGRSPrecision))
	}
	if c.Convert.MapCentrePrecision < 1 || c.Convert.MapCentrePrecision > 5 {
		problems = append(problems, fmt.Sprintf("convert.map_centre_precision must be 1..5, got %d", c.Convert.MapCentrePrecision))
	}
	if c.Batch.Workers < 1 {
		problems = append(problems, "batch.workers must be positive")
	}
	if c.Bench.Workers < 1 {
		problems = append(problems, "bench.workers must be positive")
	}
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}
	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
