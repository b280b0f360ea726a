package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapsp/internal/cli/output"
	intconfig "github.com/leapstack-labs/leapsp/internal/config"
)

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Decimal != nil {
		if _, err := c.Decimal.OpRounding(); err != nil {
			return fmt.Errorf("invalid decimal configuration: %w", err)
		}
	}
	if err := intconfig.ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}

// ParseLogLevel converts a level name to a slog level. Empty means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}
