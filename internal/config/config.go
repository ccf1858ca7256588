// Package config loads the application configuration from a TOML file.
// Settings that tune the diagram engine (zoom bounds, logical canvas
// extent, fit padding) live here; per-user window state lives in the
// preferences file instead.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"sld-editor/pkg/apperrors"
)

const configFile = "config.toml"

// Config is the application configuration.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Zoom    ZoomConfig    `toml:"zoom"`
	Catalog CatalogConfig `toml:"catalog"`
}

// CanvasConfig sets the logical canvas extent of every view.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// ZoomConfig bounds the per-view zoom factor.
type ZoomConfig struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// CatalogConfig locates the equipment catalog database.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: 2000, Height: 1500},
		Zoom:   ZoomConfig{Min: 0.1, Max: 10.0},
	}
}

// DefaultPath returns the expected config file location under the
// user's config directory.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "sld-editor", configFile)
}

// Load reads the configuration at path, falling back to defaults when
// the file does not exist. Fields missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Zoom.Min <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "zoom.min must be positive, got %v", c.Zoom.Min)
	}
	if c.Zoom.Max <= c.Zoom.Min {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"zoom.max (%v) must exceed zoom.min (%v)", c.Zoom.Max, c.Zoom.Min)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"canvas extent must be positive, got %vx%v", c.Canvas.Width, c.Canvas.Height)
	}
	return nil
}
