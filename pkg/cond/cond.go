// Package cond defines the named conditions raised to procedure handler code.
//
// A condition is an error with a Kind. Handler code matches on the kind
// (WHEN ZERO_DIVIDE THEN ...) and reads its SQLCODE; nothing else is carried
// beyond an optional cause for diagnostics.
package cond

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind names a condition.
type Kind string

// Predefined conditions.
const (
	AppError          Kind = "APP_ERROR"
	CaseNotFound      Kind = "CASE_NOT_FOUND"
	CursorAlreadyOpen Kind = "CURSOR_ALREADY_OPEN"
	DupValOnIndex     Kind = "DUP_VAL_ON_INDEX"
	InvalidCursor     Kind = "INVALID_CURSOR"
	LoginDenied       Kind = "LOGIN_DENIED"
	NoDataFound       Kind = "NO_DATA_FOUND"
	ProgramError      Kind = "PROGRAM_ERROR"
	RowtypeMismatch   Kind = "ROWTYPE_MISMATCH"
	StorageError      Kind = "STORAGE_ERROR"
	TooManyRows       Kind = "TOO_MANY_ROWS"
	ValueError        Kind = "VALUE_ERROR"
	ZeroDivide        Kind = "ZERO_DIVIDE"
)

type kindInfo struct {
	code    int
	message string
}

var kinds = map[Kind]kindInfo{
	AppError:          {1, "user-defined exception"},
	CaseNotFound:      {-6592, "case not found"},
	CursorAlreadyOpen: {-6511, "cursor already open"},
	DupValOnIndex:     {-1, "duplicate value on index"},
	InvalidCursor:     {-1001, "invalid cursor"},
	LoginDenied:       {-1017, "login denied"},
	NoDataFound:       {100, "no data found"},
	ProgramError:      {-6501, "internal program error"},
	RowtypeMismatch:   {-6504, "row type mismatch"},
	StorageError:      {-6500, "storage error"},
	TooManyRows:       {-1422, "too many rows"},
	ValueError:        {-6502, "value error"},
	ZeroDivide:        {-1476, "division by zero"},
}

// Code returns the SQLCODE of k, or 0 for an unknown kind.
func (k Kind) Code() int {
	return kinds[k].code
}

// Message returns the default SQLERRM text of k.
func (k Kind) Message() string {
	return kinds[k].message
}

// Valid reports whether k is a predefined kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Kinds returns every predefined kind, sorted by name.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Parse converts a condition name (case-insensitive) to a Kind.
func Parse(name string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(name)))
	if !k.Valid() {
		return "", false
	}
	return k, true
}

// Condition is a raised condition.
type Condition struct {
	// Kind identifies the condition.
	Kind Kind

	// Code overrides the SQLCODE. Only APP_ERROR uses it.
	Code int

	// Message overrides the default message.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// New returns a condition of kind k with its default message.
func New(k Kind) *Condition {
	return &Condition{Kind: k}
}

// Wrap returns a condition of kind k caused by err.
func Wrap(k Kind, err error) *Condition {
	return &Condition{Kind: k, Err: err}
}

// Raise returns a user-defined APP_ERROR carrying code and message.
func Raise(code int, message string) *Condition {
	return &Condition{Kind: AppError, Code: code, Message: message}
}

// RaiseCaseNotFound is raised by a CASE statement with no matching branch and no ELSE.
func RaiseCaseNotFound() error {
	return New(CaseNotFound)
}

// SQLCode returns the code handler code sees in SQLCODE.
func (c *Condition) SQLCode() int {
	if c.Code != 0 {
		return c.Code
	}
	return c.Kind.Code()
}

// SQLErrM returns the text handler code sees in SQLERRM.
func (c *Condition) SQLErrM() string {
	msg := c.Message
	if msg == "" {
		msg = c.Kind.Message()
	}
	if c.Err != nil {
		return fmt.Sprintf("%s: %v", msg, c.Err)
	}
	return msg
}

// Error implements the error interface.
func (c *Condition) Error() string {
	return fmt.Sprintf("%s: %s", c.Kind, c.SQLErrM())
}

// Unwrap returns the cause.
func (c *Condition) Unwrap() error {
	return c.Err
}

// Is matches any condition of the same kind, so errors.Is(err, cond.New(cond.InvalidCursor)) works.
func (c *Condition) Is(target error) bool {
	t, ok := target.(*Condition)
	return ok && t.Kind == c.Kind
}

// KindOf returns the kind of the first condition in err's chain.
func KindOf(err error) (Kind, bool) {
	var c *Condition
	if errors.As(err, &c) {
		return c.Kind, true
	}
	return "", false
}

// Has reports whether err carries a condition of kind k.
func Has(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// IsInvalidCursor reports whether err is INVALID_CURSOR.
func IsInvalidCursor(err error) bool {
	return Has(err, InvalidCursor)
}

// IsCursorAlreadyOpen reports whether err is CURSOR_ALREADY_OPEN.
func IsCursorAlreadyOpen(err error) bool {
	return Has(err, CursorAlreadyOpen)
}

// IsZeroDivide reports whether err is ZERO_DIVIDE.
func IsZeroDivide(err error) bool {
	return Has(err, ZeroDivide)
}
