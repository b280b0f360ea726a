package duckdb

import (
	"errors"
	"log/slog"

	"github.com/leapstack-labs/leapsp/pkg/adapter"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/marcboeker/go-duckdb"
)

func init() {
	adapter.Register("duckdb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	cond.RegisterMapper(mapError)
}

// mapError recognizes DuckDB errors that have a predefined condition.
func mapError(err error) (cond.Kind, bool) {
	var de *duckdb.Error
	if !errors.As(err, &de) {
		return "", false
	}
	switch de.Type {
	case duckdb.ErrorTypeConstraint:
		return cond.DupValOnIndex, true
	case duckdb.ErrorTypeDivideByZero:
		return cond.ZeroDivide, true
	case duckdb.ErrorTypeOutOfMemory:
		return cond.StorageError, true
	case duckdb.ErrorTypeConversion, duckdb.ErrorTypeOutOfRange:
		return cond.ValueError, true
	default:
		return "", false
	}
}
