package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Symbols are the branch markers drawn in front of each row.
type Symbols struct {
	Open   string `yaml:"open"`
	Closed string `yaml:"closed"`
	Leaf   string `yaml:"leaf"`
}

// Config holds the user-tunable settings for the explorer.
type Config struct {
	ShowHidden   bool    `yaml:"show_hidden"`
	IndentWidth  int     `yaml:"indent_width"`
	PreviewLines int     `yaml:"preview_lines"`
	Symbols      Symbols `yaml:"symbols"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		ShowHidden:   false,
		IndentWidth:  2,
		PreviewLines: 200,
		Symbols: Symbols{
			Open:   "▼",
			Closed: "▶",
			Leaf:   " ",
		},
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/fern/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fern", "config.yaml")
}

// Load reads the config file at path, falling back to defaults for any
// field the file does not set. A missing file is not an error; a malformed
// one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize clamps nonsense values back to usable ones.
func (c *Config) normalize() {
	if c.IndentWidth < 1 {
		c.IndentWidth = Default().IndentWidth
	}
	if c.PreviewLines < 1 {
		c.PreviewLines = Default().PreviewLines
	}
	defaults := Default().Symbols
	if c.Symbols.Open == "" {
		c.Symbols.Open = defaults.Open
	}
	if c.Symbols.Closed == "" {
		c.Symbols.Closed = defaults.Closed
	}
	if c.Symbols.Leaf == "" {
		c.Symbols.Leaf = defaults.Leaf
	}
}
