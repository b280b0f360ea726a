package sqlite

import (
	"errors"
	"log/slog"

	"github.com/leapstack-labs/leapsp/pkg/adapter"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	cond.RegisterMapper(mapError)
}

// mapError maps extended SQLite result codes to predefined conditions.
func mapError(err error) (cond.Kind, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return "", false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return cond.DupValOnIndex, true
	case sqlite3.SQLITE_FULL, sqlite3.SQLITE_NOMEM:
		return cond.StorageError, true
	case sqlite3.SQLITE_AUTH:
		return cond.LoginDenied, true
	case sqlite3.SQLITE_TOOBIG:
		return cond.ValueError, true
	default:
		return "", false
	}
}
