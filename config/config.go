/*
Package config loads server configuration.

PURPOSE:
  Configuration comes from an optional YAML file with environment
  variable overrides, then defaults. Nothing is required: the server
  starts with a local SQLite file and sane refresh settings out of the
  box.

PRECEDENCE (highest wins):
  1. Environment variables (CASEFLOW_*)
  2. YAML file (config.yaml, or CASEFLOW_CONFIG path)
  3. Built-in defaults
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server settings.
type Config struct {
	Port   int    `yaml:"port"`
	DBPath string `yaml:"db_path"`

	// Snapshot cache settings
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	RefreshSchedule string `yaml:"refresh_schedule"`

	CORSOrigins []string `yaml:"cors_origins"`
}

// Load reads configuration from the given YAML path (empty means
// config.yaml, overridable via CASEFLOW_CONFIG), applies environment
// overrides, then defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = "config.yaml"
		if envPath := os.Getenv("CASEFLOW_CONFIG"); envPath != "" {
			path = envPath
		}
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// Env vars override YAML values
	if err := envOverrideInt(&cfg.Port, "CASEFLOW_PORT"); err != nil {
		return Config{}, err
	}
	envOverride(&cfg.DBPath, "CASEFLOW_DB_PATH")
	if err := envOverrideInt(&cfg.CacheTTLSeconds, "CASEFLOW_CACHE_TTL_SECONDS"); err != nil {
		return Config{}, err
	}
	envOverride(&cfg.RefreshSchedule, "CASEFLOW_REFRESH_SCHEDULE")
	if origins := os.Getenv("CASEFLOW_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	// Defaults
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./caseflow.db"
	}
	if cfg.CacheTTLSeconds == 0 {
		cfg.CacheTTLSeconds = 60
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = "@every 5m"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	// Validate
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d: must be between 1 and 65535", cfg.Port)
	}
	if cfg.CacheTTLSeconds < 1 {
		return Config{}, fmt.Errorf("invalid cache_ttl_seconds %d: must be >= 1", cfg.CacheTTLSeconds)
	}

	return cfg, nil
}

// CacheTTL returns the snapshot cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
	}
	*field = parsed
	return nil
}
