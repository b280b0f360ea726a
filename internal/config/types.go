// Package config provides the configuration types and lookups shared by the
// CLI and the procedure host. It is decoupled from cobra and koanf loading.
package config

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/leapsp/pkg/adapter"
	"github.com/leapstack-labs/leapsp/pkg/core"
	"github.com/leapstack-labs/leapsp/pkg/op"
)

// defaultSchemas maps adapter types to the schema a bare table name resolves in.
var defaultSchemas = map[string]string{
	"duckdb":   "main",
	"postgres": "public",
	"sqlite":   "main",
}

// DefaultSchemaForType returns the default schema for a database type.
// Unknown types fall back to "main".
func DefaultSchemaForType(dbType string) string {
	if s, ok := defaultSchemas[dbType]; ok {
		return s
	}
	return "main"
}

// ValidateTarget checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return fmt.Errorf("target is required")
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	// Use adapter registry as single source of truth
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("target port %d out of range", t.Port)
	}
	return nil
}

// roundingModes lists the apd rounders accepted in the decimal block.
var roundingModes = []apd.Rounder{
	apd.RoundHalfUp,
	apd.RoundHalfEven,
	apd.RoundHalfDown,
	apd.RoundDown,
	apd.RoundUp,
	apd.RoundCeiling,
	apd.RoundFloor,
	apd.Round05Up,
}

// DecimalConfig controls how NUMERIC division rounds.
type DecimalConfig struct {
	// Precision is the number of significant digits. Zero means 38.
	Precision uint32 `koanf:"precision"`

	// Rounding is an apd rounder name such as half_up or half_even.
	Rounding string `koanf:"rounding"`

	// Scale, when set, fixes the number of digits after the decimal point
	// and takes precedence over Precision.
	Scale *int32 `koanf:"scale"`
}

// OpRounding converts the block into the rounding contract of op.DivNumericWith.
func (d DecimalConfig) OpRounding() (op.Rounding, error) {
	mode := apd.RoundHalfUp
	if d.Rounding != "" {
		mode = apd.Rounder(d.Rounding)
		if !slices.Contains(roundingModes, mode) {
			return op.Rounding{}, fmt.Errorf("unknown rounding mode %q (want one of %v)", d.Rounding, roundingModes)
		}
	}

	if d.Scale != nil {
		r := op.AtScale(*d.Scale)
		r.Mode = mode
		return r, nil
	}

	prec := d.Precision
	if prec == 0 {
		prec = op.DefaultPrecision
	}
	return op.Rounding{Mode: mode, Precision: prec}, nil
}
