// Package config resolves the planner settings from flags, environment,
// an optional YAML file and defaults.
package config

import (
	"agent-staffing/errors"
	"agent-staffing/logging"
	"fmt"
	"slices"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyInput        = "input"
	KeyFormat       = "format"
	KeyUtilization  = "utilization"
	KeyCapacity     = "capacity"
	KeySLA          = "sla"
	KeyServiceTime  = "service-time"
	KeyMaxOccupancy = "max-occupancy"
	KeyAbandonTime  = "abandon-time"
	KeyMetricsAddr  = "metrics-addr"
	KeyPushURL      = "push-url"
	KeyWait         = "wait"
	KeyLogLevel     = "log-level"
	KeyConfigFile   = "config"
	KeyEnvFile      = "env-file"
)

// EnvPrefix is prepended to every key to form its environment variable,
// e.g. STAFFING_SERVICE_TIME.
const EnvPrefix = "STAFFING"

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "csv", "yaml"}

// Config holds the resolved settings of a planning run.
type Config struct {
	Input        string  `yaml:"input"`
	Format       string  `yaml:"format"`
	Utilization  float64 `yaml:"utilization"`
	Capacity     int     `yaml:"capacity"`
	TargetSLA    float64 `yaml:"sla"`
	ServiceTime  int     `yaml:"service-time"`
	MaxOccupancy float64 `yaml:"max-occupancy"`
	AbandonTime  int     `yaml:"abandon-time"`
	MetricsAddr  string  `yaml:"metrics-addr"`
	PushURL      string  `yaml:"push-url"`
	Wait         bool    `yaml:"wait"`
	LogLevel     string  `yaml:"log-level"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Format:       "text",
		Utilization:  1.0,
		TargetSLA:    0.8,
		ServiceTime:  20,
		MaxOccupancy: 1.0,
		LogLevel:     "info",
	}
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return invalid(KeyFormat, "must be one of %v (got: %s)", Formats, c.Format)
	}
	if c.Utilization <= 0 || c.Utilization > 1 {
		return invalid(KeyUtilization, "must be in (0, 1] (got: %v)", c.Utilization)
	}
	if c.Capacity < 0 {
		return invalid(KeyCapacity, "must not be negative (got: %d)", c.Capacity)
	}
	if c.TargetSLA < 0 || c.TargetSLA > 1 {
		return invalid(KeySLA, "must be in [0, 1] (got: %v)", c.TargetSLA)
	}
	if c.ServiceTime <= 0 {
		return invalid(KeyServiceTime, "must be positive (got: %d)", c.ServiceTime)
	}
	if c.MaxOccupancy <= 0 || c.MaxOccupancy > 1 {
		return invalid(KeyMaxOccupancy, "must be in (0, 1] (got: %v)", c.MaxOccupancy)
	}
	if c.AbandonTime < 0 {
		return invalid(KeyAbandonTime, "must not be negative (got: %d)", c.AbandonTime)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid(KeyLogLevel, "%v", err)
	}
	return nil
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", errors.ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}
