// Package config holds faultline configuration, loaded from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Oracle kinds.
const (
	OracleStructural = "structural"
	OracleMangle     = "mangle"
)

// Completer strategies.
const (
	CompleterStructured = "structured"
	CompleterNaive      = "naive"
)

// Config holds all faultline configuration.
type Config struct {
	Oracle  OracleConfig  `yaml:"oracle"`
	Locator LocatorConfig `yaml:"locator"`
	Logging LoggingConfig `yaml:"logging"`
}

// OracleConfig selects the validity oracle.
type OracleConfig struct {
	// Kind is "structural" (built-in rule-language verifier) or "mangle"
	// (Mangle compile check).
	Kind string `yaml:"kind"`
}

// LocatorConfig configures the bisection driver.
type LocatorConfig struct {
	// Completer is "structured" (close open regions before probing) or
	// "naive" (raw prefix concatenation, compatibility mode).
	Completer string `yaml:"completer"`
	// MaxConcurrentFiles bounds how many files a multi-file run localizes at
	// once. Zero means a small default.
	MaxConcurrentFiles int `yaml:"max_concurrent_files"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json_format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Oracle:  OracleConfig{Kind: OracleStructural},
		Locator: LocatorConfig{Completer: CompleterStructured, MaxConcurrentFiles: 4},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path, layers it over the defaults, applies FAULTLINE_*
// environment overrides and validates the result. A missing file is not an
// error; the defaults (plus overrides) are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides lets CI and one-off runs steer the tool without editing
// the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FAULTLINE_ORACLE"); v != "" {
		cfg.Oracle.Kind = v
	}
	if v := os.Getenv("FAULTLINE_COMPLETER"); v != "" {
		cfg.Locator.Completer = v
	}
	if v := os.Getenv("FAULTLINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate rejects unknown oracle kinds and completer strategies.
func (c Config) Validate() error {
	switch c.Oracle.Kind {
	case OracleStructural, OracleMangle:
	default:
		return fmt.Errorf("unknown oracle kind %q (want %q or %q)",
			c.Oracle.Kind, OracleStructural, OracleMangle)
	}
	switch c.Locator.Completer {
	case CompleterStructured, CompleterNaive:
	default:
		return fmt.Errorf("unknown completer strategy %q (want %q or %q)",
			c.Locator.Completer, CompleterStructured, CompleterNaive)
	}
	if c.Locator.MaxConcurrentFiles < 0 {
		return fmt.Errorf("max_concurrent_files must not be negative, got %d",
			c.Locator.MaxConcurrentFiles)
	}
	return nil
}
