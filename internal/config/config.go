// Package config loads the TOML configuration file that drives the server:
// where the catalog and blobs live, what media roots to index, and how the
// HTTP surface should bind and behave.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is used when no config path is given on the command line.
const DefaultPath = "udrome.toml"

// Config is the root of the TOML document.
type Config struct {
	System  System  `toml:"system"`
	Media   Media   `toml:"media"`
	Indexer Indexer `toml:"indexer"`
}

// System holds process-wide settings: where data lives and how the server
// binds and presents itself to clients.
type System struct {
	DataPath string `toml:"data_path"`
	CacheMB  uint16 `toml:"cache_mb"`
	BindAddr string `toml:"bind_addr"`
	BaseURL  string `toml:"base_url"`
	Dev      bool   `toml:"dev"`
}

// Media lists the filesystem roots the indexer walks.
type Media struct {
	Paths []string `toml:"paths"`
}

// Indexer controls whether the indexing pipeline runs and what it skips.
type Indexer struct {
	Enable  bool    `toml:"enable"`
	Exclude Exclude `toml:"exclude"`
}

// Exclude lists filenames and directory names the walker/filter stage skip.
type Exclude struct {
	Files []string `toml:"files"`
	Dirs  []string `toml:"dirs"`
}

// Load reads and parses the config file at path. An empty path falls back
// to DefaultPath.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

func applyDefaults(cfg *Config) {
	if cfg.System.BindAddr == "" {
		cfg.System.BindAddr = "localhost:3000"
	}
	if cfg.System.CacheMB == 0 {
		cfg.System.CacheMB = 64
	}
}

// Validate performs semantic validation beyond what TOML unmarshalling
// checks on its own.
func Validate(cfg Config) error {
	if cfg.System.DataPath == "" {
		return errors.New("system.data_path is required")
	}
	if cfg.Indexer.Enable && len(cfg.Media.Paths) == 0 {
		return errors.New("media.paths must not be empty when indexer.enable is true")
	}
	return nil
}
