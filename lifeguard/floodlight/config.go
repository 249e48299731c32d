package floodlight

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default budget costs. A warning is worth one point, an error three; the
// process halts once MaxBudget points are consumed.
const (
	DefaultMaxBudget   = 15
	DefaultWarningCost = 1
	DefaultErrorCost   = 3
)

// Config tunes the error budget. PauseOnError freezes the process in the
// attached debugger on every error-severity report (warnings do not pause).
type Config struct {
	MaxBudget    int  `yaml:"max_budget"`
	WarningCost  int  `yaml:"warning_cost"`
	ErrorCost    int  `yaml:"error_cost"`
	PauseOnError bool `yaml:"pause_on_error"`
}

// withDefaults fills zero-valued fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.MaxBudget <= 0 {
		c.MaxBudget = DefaultMaxBudget
	}

	if c.WarningCost <= 0 {
		c.WarningCost = DefaultWarningCost
	}

	if c.ErrorCost <= 0 {
		c.ErrorCost = DefaultErrorCost
	}

	return c
}

// LoadConfig reads a YAML budget configuration from path. Missing fields
// fall back to defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read floodlight config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse floodlight config: %w", err)
	}

	return cfg.withDefaults(), nil
}
