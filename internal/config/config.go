// Package config loads the gateway configuration: YAML file first, then
// MIDORI_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		Gateway  GatewayConfig            `yaml:"gateway"`
		Logging  LoggingConfig            `yaml:"logging"`
		Platform PlatformConfig           `yaml:"platform"`
		Channels map[string]ChannelConfig `yaml:"channels"`
	}

	GatewayConfig struct {
		Bind        string `yaml:"bind" env:"MIDORI_BIND"`
		MetricsBind string `yaml:"metrics_bind" env:"MIDORI_METRICS_BIND"`
	}

	LoggingConfig struct {
		Level      string `yaml:"level" env:"MIDORI_LOG_LEVEL"` // debug, info, warn, error
		Format     string `yaml:"format"`                       // json, text
		Output     string `yaml:"output"`                       // stdout, file, both
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"max_size"` // MB
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"` // days
	}

	PlatformConfig struct {
		// BaseURL overrides the platform API origin (tests, self-hosted).
		BaseURL string `yaml:"base_url" env:"MIDORI_API_BASE"`
	}

	ChannelConfig struct {
		ID          string `yaml:"-"`
		ChannelID   int64  `yaml:"channel_id"`
		Destination string `yaml:"destination"` // bot user ID webhooks are addressed to
		Secret      string `yaml:"secret"`
		Enabled     bool   `yaml:"enabled"`

		Responder map[string]interface{} `yaml:"responder"`
	}
)

var (
	loadedMu sync.RWMutex
	loaded   *Config
)

// Load reads, overrides, and validates the config at path, and caches it as
// the process config.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	loadedMu.Lock()
	loaded = &cfg
	loadedMu.Unlock()
	return &cfg, nil
}

// Get returns the config cached by Load.
func Get() (*Config, error) {
	loadedMu.RLock()
	defer loadedMu.RUnlock()
	if loaded == nil {
		return nil, fmt.Errorf("config is not loaded")
	}
	return loaded, nil
}
