package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v8"
	"github.com/jo-hoe/goresize/internal/codec"
	"github.com/jo-hoe/goresize/internal/format"
	"github.com/jo-hoe/goresize/internal/resample"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override, e.g. GORESIZE_OUTPUT_DIRECTORY
	EnvPrefix         = "GORESIZE_"
	defaultConfigFile = "config.yaml"
)

type Logging struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type ServiceConfig struct {
	Host              string          `yaml:"host" env:"HOST"`
	Port              int             `yaml:"port" env:"PORT"`
	OutputDirectory   string          `yaml:"outputDirectory" env:"OUTPUT_DIRECTORY"`
	Formats           []format.Format `yaml:"formats" env:"FORMATS" envSeparator:","`
	Filter            resample.Filter `yaml:"filter" env:"FILTER"`
	SVGFallbackWidth  int             `yaml:"svgFallbackWidth" env:"SVG_FALLBACK_WIDTH"`
	SVGFallbackHeight int             `yaml:"svgFallbackHeight" env:"SVG_FALLBACK_HEIGHT"`
	Logging           Logging         `yaml:"logging" envPrefix:"LOG_"`
}

// DefaultConfig returns the configuration used when no file or override is present.
// Output goes to the user's desktop directory.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Host:              "127.0.0.1",
		Port:              8080,
		OutputDirectory:   xdg.UserDirs.Desktop,
		Formats:           format.All(),
		Filter:            resample.Default,
		SVGFallbackWidth:  512,
		SVGFallbackHeight: 512,
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// ConfigPath returns the config file to load: CONFIG_PATH when set, otherwise
// config.yaml in the working directory if present, otherwise "" (defaults only)
func ConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(cwd, defaultConfigFile)
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

// LoadConfig loads defaults, overlays the YAML file at configPath (skipped when
// empty) and finally applies GORESIZE_* environment overrides
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	if configPath != "" {
		// Read the config file
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}

		// Parse YAML
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate ensures the configuration can build a working converter
func (c *ServiceConfig) Validate() error {
	if c.OutputDirectory == "" {
		return errors.New("outputDirectory cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.SVGFallbackWidth <= 0 || c.SVGFallbackHeight <= 0 {
		return fmt.Errorf("svg fallback size must be positive, got %dx%d", c.SVGFallbackWidth, c.SVGFallbackHeight)
	}
	if _, err := resample.ParseFilter(string(c.Filter)); err != nil {
		return err
	}
	return validateFormats(c.Formats)
}

// validateFormats ensures the enabled formats are non-empty, unique and encodable
func validateFormats(formats []format.Format) error {
	if len(formats) == 0 {
		return errors.New("at least one output format must be enabled")
	}

	seen := make(map[format.Format]bool)
	for i, f := range formats {
		if f.IsZero() {
			return fmt.Errorf("format at index %d is empty", i)
		}
		if seen[f] {
			return fmt.Errorf("duplicate format: %s", f)
		}
		if !codec.DefaultRegistry.IsRegistered(f) {
			return fmt.Errorf("format %s has no encoder", f)
		}
		seen[f] = true
	}

	return nil
}
