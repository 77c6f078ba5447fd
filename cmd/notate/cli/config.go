// Copyright 2026 The Notate Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Color mode values accepted in the config file's "color" field.
const (
	// ColorAuto colors output when stdout is a terminal.
	ColorAuto = "auto"
	// ColorAlways colors output even when piped.
	ColorAlways = "always"
	// ColorNever disables colored output.
	ColorNever = "never"
)

// Config holds the operator's notate defaults, loaded from an optional
// JSONC file (JSON extended with // line comments, /* block comments */,
// and trailing commas). Flags override config values; config values
// override built-in defaults.
type Config struct {
	// Width is the render width for show and view. 0 means detect the
	// terminal width, falling back to 80.
	Width int `json:"width"`

	// Color controls colored rendering: "auto" (the default), "always",
	// or "never".
	Color string `json:"color"`

	// Strict makes convert and fmt fail on malformed embedded metadata
	// instead of recovering with empty metadata.
	Strict bool `json:"strict"`
}

// DefaultConfig returns the built-in defaults applied before any config
// file is read.
func DefaultConfig() *Config {
	return &Config{Color: ColorAuto}
}

// ConfigFilePath returns the path of the notate config file. Checks the
// NOTATE_CONFIG environment variable first, then falls back to
// ~/.config/notate/config.jsonc (honoring XDG_CONFIG_HOME).
func ConfigFilePath() string {
	if envPath := os.Getenv("NOTATE_CONFIG"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// No home directory to anchor the default path.
			return filepath.Join("/tmp", "notate-config.jsonc")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "notate", "config.jsonc")
}

// LoadConfig reads the config file from the well-known path. A missing
// file is not an error: the defaults are returned. A file that exists
// but cannot be parsed is an error, so typos do not silently revert the
// operator to defaults.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigFilePath())
}

// LoadConfigFrom reads a config file from a specific path.
func LoadConfigFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch config.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, fmt.Errorf("config %s: color %q (want %q, %q, or %q)",
			path, config.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if config.Width < 0 {
		return nil, fmt.Errorf("config %s: width %d is negative", path, config.Width)
	}

	return config, nil
}
