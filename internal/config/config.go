// Package config loads the sentinel's YAML configuration file, following
// the daemon config-loader pattern elsewhere in the fleet (default
// struct + YAML unmarshal + light validation, rather than a bespoke
// hand-rolled key=value format).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/hash"
)

// Config holds the probe's externally tunable settings. Every field has a
// DefaultConfig value; the YAML file only needs to set what it overrides.
type Config struct {
	// Salt overrides the default username-hashing salt. The hashing
	// contract does not promise stability across salt changes -- this is
	// intentional (see design notes on salt lifecycle).
	Salt string `yaml:"salt"`

	// WindowSeconds is the probe's reporting period, surfaced in the
	// summary but not otherwise consulted by ausearch's own "-ts today"
	// filter.
	WindowSeconds int `yaml:"window_seconds"`

	// BaselineSystemPath/BaselineUserPath override the default baseline
	// file locations.
	BaselineSystemPath string `yaml:"baseline_system_path"`
	BaselineUserPath   string `yaml:"baseline_user_path"`

	// AusearchBinary overrides the resolved ausearch binary name/path,
	// primarily useful in test or non-standard PATH environments.
	AusearchBinary string `yaml:"ausearch_binary"`

	// Capacity overrides for the bounded collections; zero means "use the
	// package default".
	MaxEventContexts  int `yaml:"max_event_contexts"`
	MaxFailureUsers   int `yaml:"max_failure_users"`
	MaxSensitiveFiles int `yaml:"max_sensitive_files"`
	MaxAnomalies      int `yaml:"max_anomalies"`
}

// DefaultConfig returns a Config with sane defaults; every zero-valued
// field here falls back to the consuming package's default (the capacity
// constants in model, the baseline paths in package baseline).
func DefaultConfig() Config {
	return Config{
		Salt:           hash.DefaultSalt,
		WindowSeconds:  86400,
		AusearchBinary: "ausearch",
	}
}

// candidatePaths are tried in order; the first that exists wins. Neither
// being present is not an error -- DefaultConfig applies.
func candidatePaths(home string) []string {
	return []string{
		filepath.Join(home, ".sentinel", "config.yaml"),
		"/etc/sentinel/audit.yaml",
	}
}

// Load reads the first present YAML config file, overlaying it onto
// DefaultConfig. If neither candidate path exists, DefaultConfig is
// returned unmodified (not an error).
func Load(home string) (Config, error) {
	cfg := DefaultConfig()

	for _, path := range candidatePaths(home) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("validate config %s: %w", path, err)
		}
		return cfg, nil
	}

	return cfg, nil
}

// Validate rejects settings that would silently misconfigure the probe.
func (c Config) Validate() error {
	if c.WindowSeconds <= 0 {
		return fmt.Errorf("window_seconds must be positive, got %d", c.WindowSeconds)
	}
	if c.Salt == "" {
		return fmt.Errorf("salt must not be empty")
	}
	return nil
}

// ApplySalt pushes the configured salt into the hash package. Callers
// invoke this exactly once, at startup, before any probe begins.
func (c Config) ApplySalt() {
	hash.SetSalt(c.Salt)
}
