// Package config loads the TOML configuration consumed at startup:
// backend selection, font, initial grid size, acceleration, and the
// theme file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Backend selection values.
const (
	BackendAuto     = "auto"
	BackendTerminal = "terminal"
	BackendNative   = "native"
)

// Config is the startup configuration.
type Config struct {
	// Backend picks the renderer: auto, terminal, or native. Auto
	// prefers the native backend and falls back to the terminal.
	Backend string `toml:"backend"`

	// Theme is the path to a scheme file (.json or .lua). Empty uses
	// the built-in scheme.
	Theme string `toml:"theme"`

	// Accelerated enables the native backend's direct raster path.
	Accelerated bool `toml:"accelerated"`

	Font   FontConfig   `toml:"font"`
	Window WindowConfig `toml:"window"`
}

// FontConfig selects the native backend's grid font.
type FontConfig struct {
	// Size in points.
	Size float32 `toml:"size"`
}

// WindowConfig sets the initial grid dimensions for the native
// backend. The terminal backend always uses the device size.
type WindowConfig struct {
	Rows int `toml:"rows"`
	Cols int `toml:"cols"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend: BackendAuto,
		Font:    FontConfig{Size: 14},
		Window:  WindowConfig{Rows: 24, Cols: 80},
	}
}

// DefaultPath returns the per-user config file location,
// $XDG_CONFIG_HOME/tessera/tessera.toml or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tessera.toml"
	}
	return filepath.Join(dir, "tessera", "tessera.toml")
}

// Load reads a TOML config file over the defaults. A missing file is
// not an error; a malformed or invalid one is, and leaves the caller
// with the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendAuto, BackendTerminal, BackendNative:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("font size %v must be positive", c.Font.Size)
	}
	if c.Window.Rows < 1 || c.Window.Cols < 1 {
		return fmt.Errorf("window %dx%d must be at least 1x1", c.Window.Rows, c.Window.Cols)
	}
	return nil
}
