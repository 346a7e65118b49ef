// Package config loads shopNERD configuration from shopnerd.yaml.
// Lookup order: working directory, then $HOME. Missing file means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all shopNERD configuration.
type Config struct {
	// Backend service settings
	Server ServerConfig `yaml:"server"`

	// UI settings
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the commerce backend connection.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures rendering behavior.
type UIConfig struct {
	// CurrencySymbol prefixes all monetary values.
	CurrencySymbol string `yaml:"currency_symbol"`

	// LogLimit is the `limit` parameter sent to the agent-logs endpoint.
	LogLimit int `yaml:"log_limit"`

	DarkMode bool `yaml:"dark_mode"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5050",
			Timeout: "15s",
		},
		UI: UIConfig{
			CurrencySymbol: "₹",
			LogLimit:       20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads shopnerd.yaml from the working directory or $HOME and merges
// it over the defaults. SHOPNERD_BASE_URL overrides the server base URL.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path := findConfigFile()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if url := os.Getenv("SHOPNERD_BASE_URL"); url != "" {
		cfg.Server.BaseURL = url
	}

	if cfg.UI.LogLimit <= 0 {
		cfg.UI.LogLimit = 20
	}
	return cfg, nil
}

func findConfigFile() string {
	if _, err := os.Stat("shopnerd.yaml"); err == nil {
		return "shopnerd.yaml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, "shopnerd.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// RequestTimeout parses the configured timeout, falling back to 15s.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
