// Package config loads the service configuration from YAML with defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Query  QueryConfig  `yaml:"query"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Port              int `yaml:"port"`
	ObservabilityPort int `yaml:"observability_port"`
}

// DataConfig locates the dataset exports.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// QueryConfig tunes the query facade.
type QueryConfig struct {
	// MaxNodes caps closure traversals; 0 means unbounded.
	MaxNodes int `yaml:"max_nodes"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			ObservabilityPort: 9090,
		},
		Query: QueryConfig{
			MaxNodes: 0,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

// Load reads configuration from path, layered over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.ObservabilityPort <= 0 || c.Server.ObservabilityPort > 65535 {
		return fmt.Errorf("invalid observability port %d", c.Server.ObservabilityPort)
	}
	if c.Server.Port == c.Server.ObservabilityPort {
		return errors.New("server and observability ports must differ")
	}
	if c.Query.MaxNodes < 0 {
		return fmt.Errorf("invalid query max_nodes %d", c.Query.MaxNodes)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}
