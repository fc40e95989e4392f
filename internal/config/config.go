package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the kbopt API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Cache     CacheConfig     `yaml:"cache"`
	Backend   BackendConfig   `yaml:"backend"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds result cache store settings.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	TTLMinutes       int      `yaml:"ttl_minutes"`
}

// BackendConfig holds the knowledge-base search backend settings.
type BackendConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// OptimizerConfig holds engine tuning knobs.
type OptimizerConfig struct {
	Workers          int `yaml:"workers"`             // max in-flight keyword fetches
	FetchTimeoutSec  int `yaml:"fetch_timeout_sec"`   // covers the whole fetch phase
	RetryMaxAttempts int `yaml:"retry_max_attempts"`  // per-keyword attempts
	RetryBaseMillis  int `yaml:"retry_base_millis"`   // first backoff delay
	RetryCapMillis   int `yaml:"retry_cap_millis"`    // backoff delay ceiling
	CooldownMillis   int `yaml:"cooldown_millis"`     // base rate-limit cooldown window
	SmallPoolChars   int `yaml:"small_pool_chars"`    // adaptive: below this -> fast
	LargePoolChars   int `yaml:"large_pool_chars"`    // adaptive: above this -> comprehensive
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = 60
	}
	if c.Backend.TimeoutSec <= 0 {
		c.Backend.TimeoutSec = 15
	}
	if c.Optimizer.Workers <= 0 {
		c.Optimizer.Workers = 6
	}
	if c.Optimizer.FetchTimeoutSec <= 0 {
		c.Optimizer.FetchTimeoutSec = 45
	}
	if c.Optimizer.RetryMaxAttempts <= 0 {
		c.Optimizer.RetryMaxAttempts = 3
	}
	if c.Optimizer.RetryBaseMillis <= 0 {
		c.Optimizer.RetryBaseMillis = 500
	}
	if c.Optimizer.RetryCapMillis <= 0 {
		c.Optimizer.RetryCapMillis = 8000
	}
	if c.Optimizer.CooldownMillis <= 0 {
		c.Optimizer.CooldownMillis = 2000
	}
	if c.Optimizer.SmallPoolChars <= 0 {
		c.Optimizer.SmallPoolChars = 50_000
	}
	if c.Optimizer.LargePoolChars <= 0 {
		c.Optimizer.LargePoolChars = 1_000_000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Optimizer.SmallPoolChars >= c.Optimizer.LargePoolChars {
		return fmt.Errorf(
			"optimizer.small_pool_chars (%d) must be below optimizer.large_pool_chars (%d)",
			c.Optimizer.SmallPoolChars, c.Optimizer.LargePoolChars,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
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
