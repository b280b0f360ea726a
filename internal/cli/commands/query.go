package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/leapsp/internal/cli/output"
	"github.com/leapstack-labs/leapsp/pkg/cursor"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
	Params []string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a query through a cursor against the target",
		Long: `Open a cursor over a query against the configured target and fetch
every row, then report %ROWCOUNT.

Parameters bind positionally from --param, in order. A parameter written
TYPE:text is bound as a typed value, e.g. --param int:10.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  leapsp query "SELECT 1 AS one"

  # Bind parameters
  leapsp query "SELECT * FROM emp WHERE deptno = ?" --param int:10

  # Output as CSV
  leapsp query "SELECT * FROM emp" --format csv

  # Interactive mode
  leapsp query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, yaml, csv, md (default from --output)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "Positional query parameter (repeatable)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) (err error) {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()
	format := resolveFormat(opts.Format, cc.Renderer)

	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !term.IsTerminal(int(os.Stdin.Fd())):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	}

	target, err := cc.OpenTarget(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, target.Close()) }()

	if strings.TrimSpace(sqlQuery) == "" {
		return runQueryREPL(cmd, cc, target.Conn, format)
	}

	params := make([]any, len(opts.Params))
	for i, p := range opts.Params {
		params[i] = parseArgValue(p)
	}
	return executeAndRender(ctx, cc.Renderer.Writer(), cc.Logger, target.Conn, strings.TrimSuffix(strings.TrimSpace(sqlQuery), ";"), params, format)
}

// resolveFormat picks the query format: the explicit flag, else one that
// matches the renderer mode.
func resolveFormat(flag string, r *output.Renderer) string {
	if flag != "" {
		return flag
	}
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return "json"
	case output.ModeYAML:
		return "yaml"
	case output.ModeMarkdown:
		return "md"
	default:
		return "table"
	}
}

// queryResult is everything a cursor fetched.
type queryResult struct {
	Columns  []string
	Rows     [][]value.Value
	RowCount int64
}

// fetchAll opens a cursor over query, fetches every row and closes it.
func fetchAll(ctx context.Context, conn cursor.Conn, logger *slog.Logger, query string, params []any) (res *queryResult, err error) {
	c := cursor.New(query, cursor.WithLogger(logger))
	if err := c.Open(ctx, conn, params...); err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, c.Close()) }()

	cols, err := c.Columns()
	if err != nil {
		return nil, err
	}
	res = &queryResult{Columns: cols}
	for {
		row, err := c.FetchRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			break
		}
		res.Rows = append(res.Rows, row)
	}
	if res.RowCount, err = c.RowCount(); err != nil {
		return nil, err
	}
	return res, nil
}

func executeAndRender(ctx context.Context, w io.Writer, logger *slog.Logger, conn cursor.Conn, query string, params []any, format string) error {
	res, err := fetchAll(ctx, conn, logger, query, params)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return renderResults(w, res, format)
}
