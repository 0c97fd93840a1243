// Package config provides configuration loading and validation for the
// dnstun-receiver daemon.
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Command-line flags (not handled here, see cmd/dnstun-receiver/main.go)
//  2. Environment variables (DNSTUN_* prefix)
//  3. YAML config file (if specified with --config)
//  4. Hardcoded defaults
//
// Environment variables are mapped from DNSTUN_CATEGORY_SETTING format,
// e.g., DNSTUN_STATUS_API_PORT maps to status_api.port in YAML.
//
// All configuration is validated during Load() to ensure correctness early.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// initConfig sets up the config loader with defaults, env binding, and config file.
func initConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	// Uses DNSTUN_ prefix: DNSTUN_STATUS_API_PORT -> status_api.port
	v.SetEnvPrefix("DNSTUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// setDefaults configures all default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("dest_dir", "")

	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.structured", false)
	v.SetDefault("logging.structured_format", "json")
	v.SetDefault("logging.include_pid", false)
	v.SetDefault("logging.extra_fields", map[string]string{})

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "dnstun-history.db")

	// Default to disabled and bound to localhost for safety.
	v.SetDefault("status_api.enabled", false)
	v.SetDefault("status_api.host", "127.0.0.1")
	v.SetDefault("status_api.port", 8080)

	v.SetDefault("host_info.enabled", false)
	v.SetDefault("host_info.interval", "5m")
}

// loadFromSource loads configuration from file and environment.
func loadFromSource(configPath string) (*Config, error) {
	v, err := initConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.Host = v.GetString("host")
	cfg.DestDir = v.GetString("dest_dir")
	loadLoggingConfig(v, cfg)
	loadHistoryConfig(v, cfg)
	loadStatusAPIConfig(v, cfg)
	loadHostInfoConfig(v, cfg)

	if err := normalizeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadLoggingConfig(v *viper.Viper, cfg *Config) {
	cfg.Logging.Level = strings.ToUpper(v.GetString("logging.level"))
	cfg.Logging.Structured = v.GetBool("logging.structured")
	cfg.Logging.StructuredFormat = v.GetString("logging.structured_format")
	cfg.Logging.IncludePID = v.GetBool("logging.include_pid")
	cfg.Logging.ExtraFields = v.GetStringMapString("logging.extra_fields")
}

func loadHistoryConfig(v *viper.Viper, cfg *Config) {
	cfg.History.Enabled = v.GetBool("history.enabled")
	cfg.History.Path = v.GetString("history.path")
}

func loadStatusAPIConfig(v *viper.Viper, cfg *Config) {
	cfg.StatusAPI.Enabled = v.GetBool("status_api.enabled")
	cfg.StatusAPI.Host = v.GetString("status_api.host")
	cfg.StatusAPI.Port = v.GetInt("status_api.port")
}

func loadHostInfoConfig(v *viper.Viper, cfg *Config) {
	cfg.HostInfo.Enabled = v.GetBool("host_info.enabled")
	cfg.HostInfo.Interval = v.GetString("host_info.interval")
}

// normalizeConfig validates and normalizes the configuration.
func normalizeConfig(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}

	if cfg.StatusAPI.Host == "" {
		cfg.StatusAPI.Host = "127.0.0.1"
	}
	if cfg.StatusAPI.Enabled {
		if cfg.StatusAPI.Port <= 0 || cfg.StatusAPI.Port > 65535 {
			return errors.New("status_api.port must be 1..65535")
		}
	}

	return nil
}
