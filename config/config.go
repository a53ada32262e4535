package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/spektr-org/crimescope/schema"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Explore ExploreConfig `mapstructure:"explore"`
	Render  RenderConfig  `mapstructure:"render"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// DataConfig holds dataset locations and the column mapping
type DataConfig struct {
	File               string         `mapstructure:"file"`
	Format             string         `mapstructure:"format"` // "auto", "csv", "json"
	Preset             string         `mapstructure:"preset"`
	Columns            schema.Columns `mapstructure:"columns"`
	UseFallbackDataset bool           `mapstructure:"use_fallback_dataset"`
	ProfilesFile       string         `mapstructure:"profiles_file"`
	TrendDir           string         `mapstructure:"trend_dir"`
	TrendMatch         string         `mapstructure:"trend_match"`
}

// ExploreConfig holds the initial explore selection
type ExploreConfig struct {
	StartYear   int    `mapstructure:"start_year"`
	EndYear     int    `mapstructure:"end_year"`
	State       string `mapstructure:"state"`
	Chart       string `mapstructure:"chart"` // "line", "bar"
	MetricLabel string `mapstructure:"metric_label"`
	Reply       string `mapstructure:"reply"`
}

// RenderConfig holds SVG output dimensions
type RenderConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds the Prometheus textfile output
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// Load reads configuration from file and environment variables.
// An empty path yields the defaults plus CRIMESCOPE_* overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CRIMESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Data.Preset != "" {
		preset, ok := schema.Preset(cfg.Data.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown data.preset %q", cfg.Data.Preset)
		}
		cfg.Data.Columns = preset
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Data defaults
	v.SetDefault("data.file", "data/estimated_crimes_1979_2023.csv")
	v.SetDefault("data.format", "auto")
	v.SetDefault("data.columns.year", schema.EstimatedCrimes.Year)
	v.SetDefault("data.columns.state", schema.EstimatedCrimes.State)
	v.SetDefault("data.columns.metric", schema.EstimatedCrimes.Metric)
	v.SetDefault("data.use_fallback_dataset", false)
	v.SetDefault("data.trend_match", "offender sex")

	// Explore defaults
	v.SetDefault("explore.start_year", 2010)
	v.SetDefault("explore.end_year", 2023)
	v.SetDefault("explore.state", "ALL")
	v.SetDefault("explore.chart", "line")
	v.SetDefault("explore.metric_label", "Aggravated Assault Count")

	// Render defaults
	v.SetDefault("render.width", 800)
	v.SetDefault("render.height", 400)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "compact")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile_path", "crimescope.prom")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Data config
	validFormats := map[string]bool{"auto": true, "csv": true, "json": true}
	if !validFormats[strings.ToLower(c.Data.Format)] {
		return fmt.Errorf("data.format must be one of: auto, csv, json")
	}
	if c.Data.Columns.Year == "" {
		return fmt.Errorf("data.columns.year is required")
	}
	if c.Data.Columns.Metric == "" {
		return fmt.Errorf("data.columns.metric is required")
	}

	// Validate Explore config
	if c.Explore.StartYear <= 0 || c.Explore.EndYear <= 0 {
		return fmt.Errorf("explore.start_year and explore.end_year must be positive")
	}
	if c.Explore.Chart != "line" && c.Explore.Chart != "bar" {
		return fmt.Errorf("explore.chart must be one of: line, bar")
	}

	// Validate Render config
	if c.Render.Width < 100 || c.Render.Height < 100 {
		return fmt.Errorf("render.width and render.height must be at least 100")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"text": true, "compact": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: text, compact")
	}

	// Validate Metrics config
	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics.textfile_path is required when metrics are enabled")
	}

	return nil
}
