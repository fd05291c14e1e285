// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultTheme         = "classic"
	DefaultDataDir       = "~/.taskpad"
	DefaultLogLevel      = "warn"
	DefaultConfirmImport = true
)

// Config holds the full configuration for taskpad.
type Config struct {
	Theme    string `toml:"theme"`
	DataDir  string `toml:"data_dir"`
	LogLevel string `toml:"log_level"`

	// ConfirmImport asks before replacing the list on import.
	ConfirmImport bool `toml:"confirm_import"`
}

func defaults() Config {
	return Config{
		Theme:         DefaultTheme,
		DataDir:       DefaultDataDir,
		LogLevel:      DefaultLogLevel,
		ConfirmImport: DefaultConfirmImport,
	}
}

// Load reads the config file if one exists and applies env overrides.
// A missing file means defaults; an unreadable one is an error.
func Load() (Config, error) {
	cfg := defaults()

	path := strings.TrimSpace(os.Getenv("TASKPAD_CONFIG"))
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".taskpad", "config.toml")
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// env override, like the data file itself
	if dir := strings.TrimSpace(os.Getenv("TASKPAD_DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}

	dir, err := expandHome(cfg.DataDir)
	if err != nil {
		return cfg, err
	}
	cfg.DataDir = dir
	return cfg, nil
}

func expandHome(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/")), nil
	}
	return p, nil
}
