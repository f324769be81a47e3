package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/machenderson/brilionxc/internal/exporter"
	"github.com/machenderson/brilionxc/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Market struct {
		Symbol   string `yaml:"symbol"`
		Period   string `yaml:"period"`
		Interval string `yaml:"interval"`
		DataFile string `yaml:"data_file"` // replay a CSV capture instead of fetching
	} `yaml:"market"`
	Detection struct {
		Window        int     `yaml:"window"`
		ZThreshold    float64 `yaml:"z_threshold"`
		VolMultiplier float64 `yaml:"vol_multiplier"`
	} `yaml:"detection"`
	Export struct {
		Format string `yaml:"format"`
		OutDir string `yaml:"out_dir"`
	} `yaml:"export"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"` // empty means a single scan and exit
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SENTINEL_SYMBOL"); v != "" {
		cfg.Market.Symbol = v
	}
	if v := os.Getenv("SENTINEL_PERIOD"); v != "" {
		cfg.Market.Period = v
	}
	if v := os.Getenv("SENTINEL_INTERVAL"); v != "" {
		cfg.Market.Interval = v
	}
	if v := os.Getenv("SENTINEL_DATA_FILE"); v != "" {
		cfg.Market.DataFile = v
	}
	if v := os.Getenv("SENTINEL_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Detection.Window = n
		}
	}
	if v := os.Getenv("SENTINEL_Z_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Detection.ZThreshold = f
		}
	}
	if v := os.Getenv("SENTINEL_VOL_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Detection.VolMultiplier = f
		}
	}
	if v := os.Getenv("SENTINEL_FORMAT"); v != "" {
		cfg.Export.Format = v
	}
	if v := os.Getenv("SENTINEL_OUT_DIR"); v != "" {
		cfg.Export.OutDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Market.Symbol == "" {
		cfg.Market.Symbol = "BTC-USD"
	}
	if cfg.Market.Period == "" {
		cfg.Market.Period = "2d"
	}
	if cfg.Market.Interval == "" {
		cfg.Market.Interval = "1m"
	}
	if cfg.Detection.Window == 0 {
		cfg.Detection.Window = 30
	}
	if cfg.Detection.ZThreshold == 0 {
		cfg.Detection.ZThreshold = 8
	}
	if cfg.Detection.VolMultiplier == 0 {
		cfg.Detection.VolMultiplier = 5
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = "csv"
	}
	if cfg.Export.OutDir == "" {
		cfg.Export.OutDir = "reports"
	}

	return cfg, nil
}

// Validate checks that all required fields are coherent.
func (c *Config) Validate() error {
	if c.Market.Symbol == "" {
		return fmt.Errorf("market.symbol is required")
	}
	if c.Detection.Window < 2 {
		return fmt.Errorf("detection.window must be at least 2, got %d", c.Detection.Window)
	}
	if c.Detection.ZThreshold <= 0 {
		return fmt.Errorf("detection.z_threshold must be positive")
	}
	if c.Detection.VolMultiplier <= 0 {
		return fmt.Errorf("detection.vol_multiplier must be positive")
	}
	if _, err := exporter.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	return nil
}

// DetectionConfig returns the detection thresholds as a value object.
func (c *Config) DetectionConfig() model.DetectionConfig {
	return model.DetectionConfig{
		Window:        c.Detection.Window,
		ZThreshold:    c.Detection.ZThreshold,
		VolMultiplier: c.Detection.VolMultiplier,
	}
}
