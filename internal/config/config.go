// Package config loads the optional TOML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/kk-code-lab/riv/internal/sorting"
)

const appName = "riv"

// Config holds the persistent defaults. Command line flags override it.
type Config struct {
	DestFolder  string  `toml:"dest_folder"`
	Sort        string  `toml:"sort"`
	Reverse     bool    `toml:"reverse"`
	Max         int     `toml:"max"`
	PersistView bool    `toml:"persist_view"`
	ShowInfoBar bool    `toml:"show_info_bar"`
	ZoomStep    float64 `toml:"zoom_step"`
	PanStep     float64 `toml:"pan_step"`
	MinVisible  float64 `toml:"min_visible"`
	Watch       bool    `toml:"watch"`
	LogFile     string  `toml:"log_file"`
	LogLevel    string  `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DestFolder:  "./keep",
		Sort:        sorting.Default.String(),
		ShowInfoBar: true,
		ZoomStep:    1.1,
		PanStep:     0.1,
		MinVisible:  0.1,
		LogLevel:    "info",
	}
}

var userConfigDirFn = os.UserConfigDir

// DefaultPath is <user config dir>/riv/config.toml.
func DefaultPath() (string, error) {
	dir, err := userConfigDirFn()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: %s", path, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return cfg, fmt.Errorf("config %s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the rest of the program cannot clamp.
func (c Config) Validate() error {
	if _, err := sorting.Parse(c.Sort); err != nil {
		return err
	}
	if c.Max < 0 {
		return fmt.Errorf("max must not be negative, got %d", c.Max)
	}
	return nil
}

// Method returns the parsed sort method.
func (c Config) Method() sorting.Method {
	m, err := sorting.Parse(c.Sort)
	if err != nil {
		return sorting.Default
	}
	return m
}

// Save writes c to path, creating the parent directory.
func Save(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
