package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapsp/internal/cli/output"
	"github.com/leapstack-labs/leapsp/internal/cli/testutil"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCommand(t *testing.T) {
	useProject(t, "", nil)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "csv",
			args: []string{"SELECT 1 AS one, 'x' AS two", "--format", "csv"},
			want: []string{"one,two\n1,x\n"},
		},
		{
			name: "table",
			args: []string{"SELECT 1 AS one", "-f", "table"},
			want: []string{"│ one │", "%ROWCOUNT = 1"},
		},
		{
			name: "markdown from output mode",
			args: []string{"SELECT 'a|b' AS v"},
			want: []string{"| v |", `a\|b`, "%ROWCOUNT = 1"},
		},
		{
			name: "typed parameter",
			args: []string{"SELECT ? + 1 AS v", "-f", "csv", "--param", "int:7"},
			want: []string{"v\n8\n"},
		},
		{
			name: "no rows",
			args: []string{"SELECT 1 WHERE 1 = 0", "-f", "table"},
			want: []string{"%ROWCOUNT = 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewQueryCommand(), tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRenderTable_KeepsColumnCase(t *testing.T) {
	var out bytes.Buffer
	res := &queryResult{
		Columns:  []string{"empNo", "ename"},
		Rows:     [][]value.Value{{value.NewInt(7), value.NewString("KING")}},
		RowCount: 1,
	}
	require.NoError(t, renderTable(&out, res))
	assert.Contains(t, out.String(), "empNo")
	assert.NotContains(t, out.String(), "EMPNO")
	assert.Contains(t, out.String(), "KING")
}

func TestQueryCommand_InputFile(t *testing.T) {
	dir := useProject(t, "", nil)
	path := filepath.Join(dir, "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 42 AS answer;\n"), 0o600))

	out, _, err := execute(t, NewQueryCommand(), "--input", path, "-f", "csv")
	require.NoError(t, err)
	assert.Equal(t, "answer\n42\n", out)
}

func TestQueryCommand_Errors(t *testing.T) {
	useProject(t, "", nil)

	t.Run("bad sql", func(t *testing.T) {
		_, _, err := execute(t, NewQueryCommand(), "SELEC nonsense")
		assert.ErrorContains(t, err, "query failed")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(t, NewQueryCommand(), "SELECT 1", "-f", "xml")
		assert.ErrorContains(t, err, `unknown format "xml"`)
	})

	t.Run("missing input file", func(t *testing.T) {
		_, _, err := execute(t, NewQueryCommand(), "--input", filepath.Join(t.TempDir(), "nope.sql"))
		assert.ErrorContains(t, err, "failed to read file")
	})
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag string
		mode output.Mode
		want string
	}{
		{flag: "csv", mode: output.ModeJSON, want: "csv"},
		{mode: output.ModeJSON, want: "json"},
		{mode: output.ModeYAML, want: "yaml"},
		{mode: output.ModeMarkdown, want: "md"},
		{mode: output.ModeText, want: "table"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.flag, func(t *testing.T) {
			r := testutil.NewTestRenderer(tt.mode, false)
			assert.Equal(t, tt.want, resolveFormat(tt.flag, r.Renderer))
		})
	}
}

func TestRenderResults(t *testing.T) {
	res := &queryResult{
		Columns: []string{"id", "name", "active"},
		Rows: [][]value.Value{
			{value.NewInt(1), value.NewString("ann"), value.NewBool(true)},
			{value.NewInt(2), value.Absent(types.String), value.NewBool(false)},
		},
		RowCount: 2,
	}

	t.Run("json keeps native scalars", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, res, "json"))

		var got structuredResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, []string{"id", "name", "active"}, got.Columns)
		assert.Equal(t, int64(2), got.RowCount)
		require.Len(t, got.Rows, 2)
		assert.InDelta(t, 1, got.Rows[0]["id"], 0)
		assert.Equal(t, "ann", got.Rows[0]["name"])
		assert.Equal(t, true, got.Rows[0]["active"])
		assert.Nil(t, got.Rows[1]["name"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, res, "yaml"))
		assert.Contains(t, buf.String(), "rowcount: 2")
		assert.Contains(t, buf.String(), "name: ann")
	})

	t.Run("csv renders absent as NULL", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, res, "csv"))
		assert.Equal(t, "id,name,active\n1,ann,true\n2,NULL,false\n", buf.String())
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderResults(&buf, res, "md"))
		assert.Contains(t, buf.String(), "| id | name | active |")
		assert.Contains(t, buf.String(), "| 2 | NULL | false |")
		testutil.AssertValidMarkdown(t, buf.String())
	})
}

func TestFetchAll(t *testing.T) {
	useProject(t, "", nil)
	cc := NewCommandContext(NewQueryCommand())
	ctx := context.Background()

	target, err := cc.OpenTarget(ctx)
	require.NoError(t, err)
	defer func() { _ = target.Close() }()

	require.NoError(t, target.Adapter.Exec(ctx, "CREATE TABLE emp (id INTEGER, name TEXT)"))
	require.NoError(t, target.Adapter.Exec(ctx, "INSERT INTO emp VALUES (1, 'ann'), (2, 'bob'), (3, NULL)"))

	res, err := fetchAll(ctx, target.Conn, cc.Logger, "SELECT id, name FROM emp WHERE id >= ? ORDER BY id", []any{int64(2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, res.Columns)
	assert.Equal(t, int64(2), res.RowCount)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "bob", res.Rows[0][1].String())
	assert.True(t, res.Rows[1][1].IsNull())
}

func TestREPLDotCommands(t *testing.T) {
	newREPL := func() (*repl, *bytes.Buffer, *bytes.Buffer) {
		cmd := NewQueryCommand()
		var out, errOut bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		return &repl{cmd: cmd, cc: NewCommandContext(cmd), format: "table"}, &out, &errOut
	}

	tests := []struct {
		name     string
		line     string
		wantQuit bool
		wantOut  string
		wantErr  string
		wantFmt  string
	}{
		{name: "quit", line: ".quit", wantQuit: true},
		{name: "exit", line: ".EXIT", wantQuit: true},
		{name: "help", line: ".help", wantOut: ".format [name]"},
		{name: "show format", line: ".format", wantOut: "format: table"},
		{name: "set format", line: ".format CSV", wantFmt: "csv"},
		{name: "bad format", line: ".format xml", wantErr: "Unknown format: xml", wantFmt: "table"},
		{name: "target", line: ".target", wantOut: "type: duckdb"},
		{name: "unknown", line: ".tables", wantErr: "Unknown command: .tables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, errOut := newREPL()
			assert.Equal(t, tt.wantQuit, r.handleDotCommand(tt.line))
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
			if tt.wantFmt != "" {
				assert.Equal(t, tt.wantFmt, r.format)
			}
		})
	}
}

func TestStatementBuffer(t *testing.T) {
	var b statementBuffer
	assert.True(t, b.Empty())

	for _, line := range []string{"SELECT ename", "", "  FROM emp  ", "WHERE deptno = 10"} {
		_, done := b.Feed(line)
		assert.False(t, done, line)
	}
	assert.False(t, b.Empty())

	stmt, done := b.Feed("ORDER BY ename;")
	require.True(t, done)
	assert.Equal(t, "SELECT ename FROM emp WHERE deptno = 10 ORDER BY ename", stmt)
	assert.True(t, b.Empty())

	stmt, done = b.Feed("SELECT 1 ;")
	require.True(t, done)
	assert.Equal(t, "SELECT 1", stmt)

	b.Feed("SELECT")
	b.Reset()
	stmt, done = b.Feed("VALUES (2);")
	require.True(t, done)
	assert.Equal(t, "VALUES (2)", stmt)
}
