package cond

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Codes(t *testing.T) {
	tests := []struct {
		kind Kind
		code int
	}{
		{NoDataFound, 100},
		{TooManyRows, -1422},
		{ZeroDivide, -1476},
		{InvalidCursor, -1001},
		{CursorAlreadyOpen, -6511},
		{DupValOnIndex, -1},
		{ValueError, -6502},
		{CaseNotFound, -6592},
		{AppError, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.kind.Code())
			assert.NotEmpty(t, tt.kind.Message())
		})
	}

	assert.Len(t, Kinds(), 13)
	assert.Equal(t, 0, Kind("NOPE").Code())
}

func TestParse(t *testing.T) {
	k, ok := Parse("zero_divide")
	require.True(t, ok)
	assert.Equal(t, ZeroDivide, k)

	_, ok = Parse("OTHERS")
	assert.False(t, ok)
}

func TestCondition_ErrorsIs(t *testing.T) {
	err := fmt.Errorf("fetch failed: %w", New(InvalidCursor))

	assert.True(t, errors.Is(err, New(InvalidCursor)))
	assert.False(t, errors.Is(err, New(NoDataFound)))
	assert.True(t, IsInvalidCursor(err))
	assert.False(t, IsCursorAlreadyOpen(err))

	k, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, InvalidCursor, k)
}

func TestCondition_SQLFields(t *testing.T) {
	c := New(CursorAlreadyOpen)
	assert.Equal(t, -6511, c.SQLCode())
	assert.Equal(t, "cursor already open", c.SQLErrM())
	assert.Equal(t, "CURSOR_ALREADY_OPEN: cursor already open", c.Error())

	app := Raise(-20001, "balance too low")
	assert.Equal(t, AppError, app.Kind)
	assert.Equal(t, -20001, app.SQLCode())
	assert.Equal(t, "balance too low", app.SQLErrM())

	wrapped := Wrap(NoDataFound, sql.ErrNoRows)
	assert.Contains(t, wrapped.SQLErrM(), "no rows in result set")
	assert.ErrorIs(t, wrapped, sql.ErrNoRows)
}

func TestFromError(t *testing.T) {
	existing := New(TooManyRows)

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "passthrough", err: fmt.Errorf("x: %w", existing), want: TooManyRows},
		{name: "no rows", err: sql.ErrNoRows, want: NoDataFound},
		{name: "anything else", err: errors.New("boom"), want: ProgramError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
		})
	}

	assert.Nil(t, FromError(nil))
}

func divide(a, b int) (q int, err error) {
	defer Recover(&err)
	return a / b, nil
}

func TestRecover_IntegerDivideByZero(t *testing.T) {
	_, err := divide(1, 0)
	require.Error(t, err)
	assert.True(t, IsZeroDivide(err))

	q, err := divide(6, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, q)
}

func TestFromPanic(t *testing.T) {
	assert.Nil(t, FromPanic(nil))

	c := FromPanic("something odd")
	require.NotNil(t, c)
	assert.Equal(t, ProgramError, c.Kind)
}

func TestRegisterMapper(t *testing.T) {
	sentinel := errors.New("unique constraint violated")
	RegisterMapper(func(err error) (Kind, bool) {
		if errors.Is(err, sentinel) {
			return DupValOnIndex, true
		}
		return "", false
	})

	got := FromError(fmt.Errorf("insert: %w", sentinel))
	assert.Equal(t, DupValOnIndex, got.Kind)
}

func TestRaiseCaseNotFound(t *testing.T) {
	assert.True(t, Has(RaiseCaseNotFound(), CaseNotFound))
}
