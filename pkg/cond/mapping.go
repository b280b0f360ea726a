package cond

import (
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// Mapper recognizes driver-specific errors. It returns false for errors it does not know.
type Mapper func(err error) (Kind, bool)

var (
	mappersMu sync.RWMutex
	mappers   []Mapper
)

// RegisterMapper adds a driver error mapper. Adapters call this from init().
func RegisterMapper(m Mapper) {
	mappersMu.Lock()
	defer mappersMu.Unlock()
	mappers = append(mappers, m)
}

func mapDriverError(err error) (Kind, bool) {
	mappersMu.RLock()
	defer mappersMu.RUnlock()
	for _, m := range mappers {
		if k, ok := m(err); ok {
			return k, true
		}
	}
	return "", false
}

// FromError converts err into a condition. A condition already in the chain
// is returned as is. Host arithmetic faults become ZERO_DIVIDE or VALUE_ERROR,
// sql.ErrNoRows becomes NO_DATA_FOUND, and registered driver mappers are
// consulted before falling back to PROGRAM_ERROR. A nil err gives nil.
func FromError(err error) *Condition {
	if err == nil {
		return nil
	}

	var c *Condition
	if errors.As(err, &c) {
		return c
	}

	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(NoDataFound, err)
	}

	var re runtime.Error
	if errors.As(err, &re) {
		if k, ok := arithmeticKind(re.Error()); ok {
			return Wrap(k, err)
		}
	}

	if k, ok := mapDriverError(err); ok {
		return Wrap(k, err)
	}

	return Wrap(ProgramError, err)
}

func arithmeticKind(msg string) (Kind, bool) {
	switch {
	case strings.Contains(msg, "divide by zero"), strings.Contains(msg, "division by zero"):
		return ZeroDivide, true
	case strings.Contains(msg, "overflow"), strings.Contains(msg, "invalid operation"):
		return ValueError, true
	default:
		return "", false
	}
}

// FromPanic converts a recovered panic value into a condition.
func FromPanic(r any) *Condition {
	switch v := r.(type) {
	case nil:
		return nil
	case error:
		return FromError(v)
	default:
		return Wrap(ProgramError, fmt.Errorf("panic: %v", v))
	}
}

// Recover converts an in-flight panic into a condition stored in *errp.
// Use as: defer cond.Recover(&err).
func Recover(errp *error) {
	if r := recover(); r != nil {
		*errp = FromPanic(r)
	}
}
