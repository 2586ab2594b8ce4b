package config

import (
	"fmt"
)

// Config represents the unified configuration structure
type Config struct {
	App           AppConfig           `json:"app" yaml:"app"`
	Server        ServerConfig        `json:"server" yaml:"server"`
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
	Redis         RedisConfig         `json:"redis" yaml:"redis"`
	Health        HealthConfig        `json:"health" yaml:"health"`
	RateLimit     RateLimitConfig     `json:"rate_limit" yaml:"rate_limit"`
	CORS          CORSConfig          `json:"cors" yaml:"cors"`
}

// AppConfig identifies the service in logs and the info endpoint
type AppConfig struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Environment string `json:"environment" yaml:"environment"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		App:           DefaultAppConfig(),
		Server:        DefaultServerConfig(),
		Observability: DefaultObservabilityConfig(),
		Redis:         DefaultRedisConfig(),
		Health:        DefaultHealthConfig(),
		RateLimit:     DefaultRateLimitConfig(),
		CORS:          DefaultCORSConfig(),
	}
}

// DefaultAppConfig returns the default application identity
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Name:        "itemsvc",
		Version:     "1.0.0",
		Environment: "development",
	}
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app config validation failed: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability config validation failed: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis config validation failed: %w", err)
	}
	if err := c.Health.Validate(); err != nil {
		return fmt.Errorf("health config validation failed: %w", err)
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}
	return nil
}

// Validate validates the application identity
func (a *AppConfig) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	switch a.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("invalid environment: %s, must be one of: development, staging, production", a.Environment)
	}
}
