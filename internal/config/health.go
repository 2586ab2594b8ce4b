package config

import (
	"fmt"
	"time"
)

// HealthConfig contains dependency probe configuration
type HealthConfig struct {
	// ProbeTimeout is the default per-probe deadline. Individual probes
	// may override it at registration time.
	ProbeTimeout time.Duration `json:"probe_timeout" yaml:"probe_timeout"`
	// ReadinessMargin is added on top of the slowest probe deadline to
	// bound the total readiness wait.
	ReadinessMargin time.Duration `json:"readiness_margin" yaml:"readiness_margin"`
}

// DefaultHealthConfig returns default dependency probe configuration
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		ProbeTimeout:    2 * time.Second,
		ReadinessMargin: 250 * time.Millisecond,
	}
}

// Validate validates the health configuration
func (h *HealthConfig) Validate() error {
	if h.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive")
	}
	if h.ReadinessMargin <= 0 {
		return fmt.Errorf("readiness_margin must be positive")
	}
	return nil
}
