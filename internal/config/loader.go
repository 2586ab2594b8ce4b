package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/svclab/itemsvc/internal/constants"
)

// LoadConfig loads configuration with precedence:
// 1. Explicit CLI flags (highest priority)
// 2. Environment variables
// 3. Configuration file values
// 4. Default configuration values (lowest priority)
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// Start with default configuration
	config := DefaultConfig()

	// Load from configuration file if provided
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		mergeConfig(config, fileConfig)
	}

	// Load from environment variables
	loadFromEnv(config)

	// Override with explicitly set CLI flags
	if flags != nil {
		overrideWithFlags(config, flags)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML or JSON file
func loadFromFile(filePath string) (*Config, error) {
	// Normalize path to absolute for consistency
	if !filepath.IsAbs(filePath) {
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for %s: %w", filePath, err)
		}
		filePath = absPath
	}

	// Validate file path to prevent directory traversal
	if err := validateFilePath(filePath); err != nil {
		return nil, fmt.Errorf("invalid config file path %s: %w", filePath, err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 - file path validated by validateFilePath()
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	config := &Config{}
	ext := filepath.Ext(filePath)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".json":
		err = json.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) {
	if val := os.Getenv(constants.EnvHost); val != "" {
		config.Server.Host = val
	}
	if val := os.Getenv(constants.EnvPort); val != "" {
		config.Server.Port = val
	}
	if val := os.Getenv(constants.EnvMetricsPort); val != "" {
		config.Server.MetricsPort = val
	}
	if val := os.Getenv(constants.EnvEnvironment); val != "" {
		config.App.Environment = val
	}
	if val := os.Getenv(constants.EnvReadTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Server.ReadTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvWriteTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Server.WriteTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvIdleTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Server.IdleTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvMaxRequestSize); val != "" {
		if size, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Server.MaxRequestSize = size
		}
	}
	if val := os.Getenv(constants.EnvShutdownTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Server.ShutdownTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvLogLevel); val != "" {
		config.Observability.Logging.Level = val
	}
	if val := os.Getenv(constants.EnvLogFormat); val != "" {
		config.Observability.Logging.Format = val
	}
	if val := os.Getenv(constants.EnvRedisURL); val != "" {
		config.Redis.URL = val
	}
	if val := os.Getenv(constants.EnvProbeTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Health.ProbeTimeout = duration
		}
	}
}

// overrideWithFlags overrides configuration with CLI flag values.
// Only explicitly set flags override other configuration sources.
func overrideWithFlags(config *Config, flags *pflag.FlagSet) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "host":
			config.Server.Host = f.Value.String()
		case "port":
			config.Server.Port = f.Value.String()
		case "metrics-port":
			config.Server.MetricsPort = f.Value.String()
		case "environment":
			config.App.Environment = f.Value.String()
		case "log-level":
			config.Observability.Logging.Level = f.Value.String()
		case "log-format":
			config.Observability.Logging.Format = f.Value.String()
		case "redis-url":
			config.Redis.URL = f.Value.String()
		case "probe-timeout":
			if duration, err := time.ParseDuration(f.Value.String()); err == nil {
				config.Health.ProbeTimeout = duration
			}
		case "shutdown-timeout":
			if duration, err := time.ParseDuration(f.Value.String()); err == nil {
				config.Server.ShutdownTimeout = duration
			}
		case "rate-limit-enabled":
			if enabled, err := strconv.ParseBool(f.Value.String()); err == nil {
				config.RateLimit.Enabled = enabled
			}
		case "rate-limit-rps":
			if rps, err := strconv.Atoi(f.Value.String()); err == nil {
				config.RateLimit.RequestsPerSecond = rps
			}
		}
	})
}

// mergeConfig merges file configuration into the base configuration
func mergeConfig(base *Config, file *Config) {
	if file.App.Name != "" {
		base.App.Name = file.App.Name
	}
	if file.App.Version != "" {
		base.App.Version = file.App.Version
	}
	if file.App.Environment != "" {
		base.App.Environment = file.App.Environment
	}

	if file.Server.Host != "" {
		base.Server.Host = file.Server.Host
	}
	if file.Server.Port != "" {
		base.Server.Port = file.Server.Port
	}
	if file.Server.MetricsPort != "" {
		base.Server.MetricsPort = file.Server.MetricsPort
	}
	if file.Server.ReadTimeout > 0 {
		base.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout > 0 {
		base.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout > 0 {
		base.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.MaxRequestSize > 0 {
		base.Server.MaxRequestSize = file.Server.MaxRequestSize
	}
	if file.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}

	if file.Observability.Logging.Level != "" {
		base.Observability.Logging.Level = file.Observability.Logging.Level
	}
	if file.Observability.Logging.Format != "" {
		base.Observability.Logging.Format = file.Observability.Logging.Format
	}
	if file.Observability.Logging.Output != "" {
		base.Observability.Logging.Output = file.Observability.Logging.Output
	}
	if file.Observability.Metrics.Enabled != base.Observability.Metrics.Enabled {
		base.Observability.Metrics.Enabled = file.Observability.Metrics.Enabled
	}
	if file.Observability.Metrics.Path != "" {
		base.Observability.Metrics.Path = file.Observability.Metrics.Path
	}
	if file.Observability.Tracing.Enabled != base.Observability.Tracing.Enabled {
		base.Observability.Tracing = file.Observability.Tracing
	}

	if file.Redis.URL != "" {
		base.Redis.URL = file.Redis.URL
	}
	if file.Redis.PoolSize > 0 {
		base.Redis.PoolSize = file.Redis.PoolSize
	}
	if file.Redis.DialTimeout > 0 {
		base.Redis.DialTimeout = file.Redis.DialTimeout
	}
	if file.Redis.CacheTTL > 0 {
		base.Redis.CacheTTL = file.Redis.CacheTTL
	}
	if file.Redis.KeyPrefix != "" {
		base.Redis.KeyPrefix = file.Redis.KeyPrefix
	}

	if file.Health.ProbeTimeout > 0 {
		base.Health.ProbeTimeout = file.Health.ProbeTimeout
	}
	if file.Health.ReadinessMargin > 0 {
		base.Health.ReadinessMargin = file.Health.ReadinessMargin
	}

	if file.RateLimit.Enabled != base.RateLimit.Enabled {
		base.RateLimit.Enabled = file.RateLimit.Enabled
	}
	if file.RateLimit.RequestsPerSecond > 0 {
		base.RateLimit.RequestsPerSecond = file.RateLimit.RequestsPerSecond
	}
	if file.RateLimit.BurstSize > 0 {
		base.RateLimit.BurstSize = file.RateLimit.BurstSize
	}

	if file.CORS.Enabled != base.CORS.Enabled {
		base.CORS = file.CORS
	}
}

// validateFilePath checks if the file path is safe to read
// Prevents directory traversal attacks and ensures the file is within expected locations
func validateFilePath(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	cleanPath := filepath.Clean(absPath)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains directory traversal attempts")
	}

	return nil
}
