// Package config provides configuration management for the leapsp CLI.
//
// The target and decimal types live in pkg/core and internal/config and are
// re-exported here so commands only import this package.
package config

import (
	intconfig "github.com/leapstack-labs/leapsp/internal/config"
	"github.com/leapstack-labs/leapsp/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// DecimalConfig is an alias for the shared decimal arithmetic settings.
type DecimalConfig = intconfig.DecimalConfig

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string               `koanf:"state_path"`
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	LogLevel     string               `koanf:"log_level"`
	Target       *TargetConfig        `koanf:"target"`
	Decimal      *DecimalConfig       `koanf:"decimal"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. Relative paths resolve against it.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target  *TargetConfig  `koanf:"target"`
	Decimal *DecimalConfig `koanf:"decimal"`
}

// Default configuration values, shared with internal/config.
const (
	DefaultTargetType = intconfig.DefaultTargetType
	DefaultStateFile  = intconfig.DefaultStateFile
	DefaultEnv        = intconfig.DefaultEnv
	DefaultOutput     = intconfig.DefaultOutput
	DefaultLogLevel   = intconfig.DefaultLogLevel
)

// DecimalSettings returns the decimal settings, never nil.
func (c *Config) DecimalSettings() DecimalConfig {
	if c.Decimal == nil {
		return DecimalConfig{}
	}
	return *c.Decimal
}
