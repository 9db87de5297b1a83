// Package config loads the application's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"smartdip/internal/colormap"
	"smartdip/internal/compare"
	"smartdip/internal/histogram"
	"smartdip/internal/roizoom"
	"smartdip/internal/surface"
)

// Config is the full application configuration.
type Config struct {
	Backend  Backend  `yaml:"backend"`
	Analysis Analysis `yaml:"analysis"`
	Compare  Compare  `yaml:"compare"`
}

// Backend configures the processing service client.
type Backend struct {
	URL           string        `yaml:"url"`
	Timeout       time.Duration `yaml:"timeout"`
	DecodeWorkers int           `yaml:"decode_workers"`
}

// Analysis holds defaults for the analysis views.
type Analysis struct {
	Colormap       string `yaml:"colormap"`
	HistogramMode  string `yaml:"histogram_mode"`
	ZoomFactor     int    `yaml:"zoom_factor"`
	SurfaceColumns int    `yaml:"surface_columns"`
	SurfaceRows    int    `yaml:"surface_rows"`
}

// Compare holds defaults for the comparison view.
type Compare struct {
	DefaultMode     string        `yaml:"default_mode"`
	DecodeTimeout   time.Duration `yaml:"decode_timeout"`
	MagnifierRadius float64       `yaml:"magnifier_radius"`
	MagnifierZoom   float64       `yaml:"magnifier_zoom"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: Backend{
			URL:           "http://127.0.0.1:5000",
			Timeout:       60 * time.Second,
			DecodeWorkers: 4,
		},
		Analysis: Analysis{
			Colormap:       string(colormap.Jet),
			HistogramMode:  string(histogram.ModeRGB),
			ZoomFactor:     roizoom.DefaultZoomFactor,
			SurfaceColumns: surface.DefaultColumns,
			SurfaceRows:    surface.DefaultRows,
		},
		Compare: Compare{
			DefaultMode:     compare.ModeSlider.String(),
			DecodeTimeout:   compare.DefaultDecodeTimeout,
			MagnifierRadius: compare.DefaultMagnifierRadius,
			MagnifierZoom:   compare.DefaultMagnifierZoom,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enum names.
func (c *Config) Validate() error {
	var errs []error
	if c.Backend.URL == "" {
		errs = append(errs, errors.New("backend.url is required"))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}
	if c.Backend.DecodeWorkers <= 0 {
		errs = append(errs, errors.New("backend.decode_workers must be positive"))
	}
	if _, err := colormap.Parse(c.Analysis.Colormap); err != nil {
		errs = append(errs, fmt.Errorf("analysis.colormap: %w", err))
	}
	if _, err := histogram.ParseMode(c.Analysis.HistogramMode); err != nil {
		errs = append(errs, fmt.Errorf("analysis.histogram_mode: %w", err))
	}
	if c.Analysis.ZoomFactor < 1 {
		errs = append(errs, errors.New("analysis.zoom_factor must be at least 1"))
	}
	if c.Analysis.SurfaceColumns < 1 || c.Analysis.SurfaceRows < 1 {
		errs = append(errs, errors.New("analysis.surface_columns and surface_rows must be positive"))
	}
	if _, err := compare.ParseMode(c.Compare.DefaultMode); err != nil {
		errs = append(errs, fmt.Errorf("compare.default_mode: %w", err))
	}
	if c.Compare.DecodeTimeout <= 0 {
		errs = append(errs, errors.New("compare.decode_timeout must be positive"))
	}
	if c.Compare.MagnifierRadius <= 0 || c.Compare.MagnifierZoom <= 0 {
		errs = append(errs, errors.New("compare.magnifier_radius and magnifier_zoom must be positive"))
	}
	return errors.Join(errs...)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
