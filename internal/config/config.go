package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Environment variables that override values from config.toml
const (
	EnvDBPath          = "SONGSHELF_DB_PATH"
	EnvLogLevel        = "SONGSHELF_LOG_LEVEL"
	EnvReportAllErrors = "SONGSHELF_REPORT_ALL_ERRORS"
)

// Config represents the songshelf configuration from config.toml
type Config struct {
	DB struct {
		Path string `toml:"path"` // Empty means the XDG data dir default
	} `toml:"db"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"` // Empty means the XDG state dir default
	} `toml:"log"`
	UI struct {
		Theme string `toml:"theme"`
	} `toml:"ui"`
	Validation struct {
		// ReportAll lists every failing field instead of the legacy
		// last-message-wins output. Changes what users see; off by default.
		ReportAll bool `toml:"report_all"`
	} `toml:"validation"`
}

// defaultConfig returns the configuration used when no file exists
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.UI.Theme = "clean_cyber"
	return cfg
}

// DefaultDir returns $XDG_CONFIG_HOME/songshelf, falling back to ~/.config
func DefaultDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "songshelf"), nil
}

// LoadConfig loads configuration from the standard XDG config path with sensible defaults
func LoadConfig() (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(dir)
}

// LoadConfigFrom loads dir/config.toml over the defaults, then applies
// environment overrides. It reads the environment but never modifies it.
func LoadConfigFrom(dir string) (*Config, error) {
	config := defaultConfig()
	configPath := filepath.Join(dir, "config.toml")

	// Read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		configData, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse TOML config, merging with defaults
		if err := toml.Unmarshal(configData, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DB.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvReportAllErrors); v != "" {
		reportAll, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvReportAllErrors, v, err)
		}
		c.Validation.ReportAll = reportAll
	}
	return nil
}

// LogPath returns the configured log file, defaulting to the XDG state dir
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}

	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "songshelf", "songshelf.log"), nil
}
