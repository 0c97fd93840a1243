// Package config provides configuration loading for the dnstun-receiver
// daemon using Viper. Configuration is loaded from a YAML file with
// automatic environment variable binding.
//
// Environment variables use the DNSTUN_ prefix and underscore-separated
// keys:
//   - DNSTUN_HOST -> host
//   - DNSTUN_HISTORY_ENABLED -> history.enabled
//   - DNSTUN_STATUS_API_PORT -> status_api.port
package config

import (
	"os"
	"strings"
)

// LoggingConfig contains logging settings, mirroring internal/logging.Config.
type LoggingConfig struct {
	Level            string            `yaml:"level"             mapstructure:"level"`
	Structured       bool              `yaml:"structured"        mapstructure:"structured"`
	StructuredFormat string            `yaml:"structured_format" mapstructure:"structured_format"`
	IncludePID       bool              `yaml:"include_pid"       mapstructure:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields"      mapstructure:"extra_fields"`
}

// HistoryConfig controls the optional sqlite transfer-history sink (§11.2).
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path"    mapstructure:"path"`
}

// StatusAPIConfig controls the optional read-only HTTP status surface (§11.4).
type StatusAPIConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Host    string `yaml:"host"    mapstructure:"host"`
	Port    int    `yaml:"port"    mapstructure:"port"`
}

// HostInfoConfig controls the periodic host telemetry snapshot (§11.3).
type HostInfoConfig struct {
	Enabled  bool   `yaml:"enabled"  mapstructure:"enabled"`
	Interval string `yaml:"interval" mapstructure:"interval"`
}

// Config is the root configuration structure for dnstun-receiver. Host and
// DestDir duplicate the receiver CLI's positional arguments so a config
// file can supply them for long-running daemon deployments; values passed
// on the command line always take precedence (see cmd/dnstun-receiver).
type Config struct {
	Host      string          `yaml:"host"       mapstructure:"host"`
	DestDir   string          `yaml:"dest_dir"   mapstructure:"dest_dir"`
	Logging   LoggingConfig   `yaml:"logging"    mapstructure:"logging"`
	History   HistoryConfig   `yaml:"history"    mapstructure:"history"`
	StatusAPI StatusAPIConfig `yaml:"status_api" mapstructure:"status_api"`
	HostInfo  HostInfoConfig  `yaml:"host_info"  mapstructure:"host_info"`
}

// ResolveConfigPath determines the config file path from flag or environment.
func ResolveConfigPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if v := strings.TrimSpace(os.Getenv("DNSTUN_CONFIG")); v != "" {
		return v
	}
	return ""
}

// Load loads configuration from a YAML file with environment variable
// overrides. This is the main entry point for loading configuration.
//
// Configuration priority (highest to lowest):
//  1. Environment variables (DNSTUN_*)
//  2. Config file values
//  3. Default values
func Load(path string) (*Config, error) {
	return loadFromSource(path)
}
