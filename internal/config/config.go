// Package config loads the process-wide settings once at startup. The
// resulting value is immutable; the rest of the system receives it by
// value and never reads configuration sources directly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the searchgate configuration.
type Config struct {
	HTTP    HTTPConfig    `toml:"http"`
	Engine  EngineConfig  `toml:"engine"`
	Search  SearchConfig  `toml:"search"`
	Auth    AuthConfig    `toml:"auth"`
	Logging LoggingConfig `toml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeoutSec  int    `toml:"read_timeout_sec"`
	WriteTimeoutSec int    `toml:"write_timeout_sec"`
	ShutdownSec     int    `toml:"shutdown_timeout_sec"`
}

// EngineConfig holds search-engine connection settings.
type EngineConfig struct {
	Addrs            []string `toml:"addrs"`
	Password         string   `toml:"password"`
	KeyPrefix        string   `toml:"key_prefix"`
	ReadinessTimeout int      `toml:"readiness_timeout_sec"`
}

// SearchConfig holds pagination and hit-decoding settings.
type SearchConfig struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
	// StrictHits aborts a response on the first undecodable hit instead
	// of dropping it.
	StrictHits bool `toml:"strict_hits"`
}

// AuthConfig holds the TOTP gate settings. Secrets are base32-encoded.
type AuthConfig struct {
	Enabled     bool   `toml:"enabled"`
	ReadSecret  string `toml:"read_secret"`
	WriteSecret string `toml:"write_secret"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a TOML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes TOML configuration after substituting ${VAR} references.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = "127.0.0.1"
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.KeyPrefix == "" {
		c.Engine.KeyPrefix = "searchgate:"
	}
	if c.Engine.ReadinessTimeout <= 0 {
		c.Engine.ReadinessTimeout = 10
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 10
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Engine.Addrs) == 0 {
		return fmt.Errorf("engine.addrs is required")
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("search.max_page_size %d is below search.default_page_size %d",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}
	if c.Auth.Enabled {
		if c.Auth.ReadSecret == "" {
			return fmt.Errorf("auth.read_secret is required when auth is enabled")
		}
		if c.Auth.WriteSecret == "" {
			return fmt.Errorf("auth.write_secret is required when auth is enabled")
		}
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
