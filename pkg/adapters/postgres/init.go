package postgres

import (
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leapstack-labs/leapsp/pkg/adapter"
	"github.com/leapstack-labs/leapsp/pkg/cond"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
	cond.RegisterMapper(mapError)
}

// mapError maps SQLSTATE codes to predefined conditions.
func mapError(err error) (cond.Kind, bool) {
	var pe *pgconn.PgError
	if !errors.As(err, &pe) {
		return "", false
	}
	switch pe.Code {
	case "23505": // unique_violation
		return cond.DupValOnIndex, true
	case "28000", "28P01": // invalid_authorization_specification, invalid_password
		return cond.LoginDenied, true
	case "22012": // division_by_zero
		return cond.ZeroDivide, true
	case "22003", "22P02": // numeric_value_out_of_range, invalid_text_representation
		return cond.ValueError, true
	case "53100", "53200": // disk_full, out_of_memory
		return cond.StorageError, true
	case "21000": // cardinality_violation
		return cond.TooManyRows, true
	default:
		return "", false
	}
}
