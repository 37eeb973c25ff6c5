package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
// Zero values leave the build configuration file (or its defaults) in charge.
type Config struct {
	ConfigPath  string // .hcl, .yaml or .yml build file
	PatternRoot string // overrides catalog.pattern_root

	CellLimit  int    // overrides catalog.hard_cell_limit when > 0
	SQLitePath string // overrides output.sqlite
	NotifyURL  string // overrides notify.url

	DryRun          bool
	Watch           bool
	HealthcheckPort int // watch mode only, 0 is disabled

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" && cfg.PatternRoot == "" {
		return nil, errors.New("either a pattern root or a config file is required")
	}
	if cfg.CellLimit < 0 {
		return nil, fmt.Errorf("cell limit must not be negative, got %d", cfg.CellLimit)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.HealthcheckPort > 0 && !cfg.Watch {
		return nil, errors.New("healthcheck port requires watch mode")
	}
	return &cfg, nil
}
