// Package config loads head-unit daemon configuration from a layered
// YAML file plus environment variable overrides, using koanf/v2.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the complete head-unit daemon configuration: the
// engine itself only accepts an already-parsed tls.Certificate and
// head-unit identity strings (spec.md Non-goals exclude certificate
// provisioning from the engine), so this is where paths and identity
// strings are read from disk.
type Config struct {
	Listen  ListenConfig  `koanf:"listen"`
	TLS     TLSConfig     `koanf:"tls"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Identity IdentityConfig `koanf:"identity"`
}

// ListenConfig holds the accept-loop listen address.
type ListenConfig struct {
	// Addr is the TCP listen address (e.g., ":5277").
	Addr string `koanf:"addr"`
}

// TLSConfig holds the paths to the head unit's own certificate and
// key, and an optional CA bundle used as the trust store for
// verifying the mobile device's certificate signature (spec.md §4.3:
// any leaf is accepted as long as its signature verifies).
type TLSConfig struct {
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
	CAFile   string `koanf:"ca_file"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	Level string `koanf:"level"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
	Path string `koanf:"path"`
}

// IdentityConfig holds the strings returned in
// SERVICE_DISCOVERY_RESPONSE.
type IdentityConfig struct {
	HeadUnitName  string `koanf:"head_unit_name"`
	CarModel      string `koanf:"car_model"`
	CarYear       string `koanf:"car_year"`
	CarSerial     string `koanf:"car_serial"`
	LeftHandDrive bool   `koanf:"left_hand_drive"`
}

// Validation errors.
var (
	ErrEmptyListenAddr  = errors.New("listen.addr must not be empty")
	ErrMissingCertFile  = errors.New("tls.cert_file must be set")
	ErrMissingKeyFile   = errors.New("tls.key_file must be set")
	ErrEmptyHeadUnitName = errors.New("identity.head_unit_name must not be empty")
)

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen: ListenConfig{Addr: ":5277"},
		Log:    LogConfig{Level: "info"},
		Metrics: MetricsConfig{
			Addr: ":9090",
			Path: "/metrics",
		},
		Identity: IdentityConfig{
			HeadUnitName: "aaengine",
		},
	}
}

// envPrefix is the environment variable prefix, e.g.
// AAENGINE_LISTEN_ADDR -> listen.addr.
const envPrefix = "AAENGINE_"

// Load reads configuration from a YAML file at path, overlaid with
// AAENGINE_-prefixed environment variables, on top of DefaultConfig.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("config: load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

func loadDefaults(k *koanf.Koanf, d *Config) error {
	values := map[string]any{
		"listen.addr":             d.Listen.Addr,
		"log.level":               d.Log.Level,
		"metrics.addr":            d.Metrics.Addr,
		"metrics.path":            d.Metrics.Path,
		"identity.head_unit_name": d.Identity.HeadUnitName,
	}
	for key, val := range values {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks the configuration for logical errors, returning the
// first one found.
func Validate(cfg *Config) error {
	if cfg.Listen.Addr == "" {
		return ErrEmptyListenAddr
	}
	if cfg.TLS.CertFile == "" {
		return ErrMissingCertFile
	}
	if cfg.TLS.KeyFile == "" {
		return ErrMissingKeyFile
	}
	if cfg.Identity.HeadUnitName == "" {
		return ErrEmptyHeadUnitName
	}
	return nil
}
