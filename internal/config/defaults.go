package config

import "github.com/leapstack-labs/leapsp/pkg/core"

// Default configuration values.
const (
	DefaultTargetType = "duckdb"
	DefaultStateFile  = ".leapsp/runs.db"
	DefaultEnv        = "dev"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel   = "warn"
)

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}

	if t.Type == "" {
		t.Type = DefaultTargetType
	}

	// Apply default schema based on type
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	switch t.Type {
	case "postgres":
		if t.Port == 0 {
			t.Port = 5432
		}
	case "duckdb", "sqlite":
		if t.Database == "" {
			t.Database = ":memory:"
		}
	}
}
