package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"gopkg.in/yaml.v3"
)

func renderResults(w io.Writer, res *queryResult, format string) error {
	switch format {
	case "json":
		return renderJSON(w, res)
	case "yaml":
		return renderYAML(w, res)
	case "csv":
		return renderCSV(w, res)
	case "md", "markdown":
		return renderMarkdown(w, res)
	case "table", "text", "":
		return renderTable(w, res)
	default:
		return fmt.Errorf("unknown format %q (want table, json, yaml, csv or md)", format)
	}
}

func renderTable(w io.Writer, res *queryResult) error {
	if len(res.Rows) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		// Column names print as the query spelled them.
		style := table.StyleLight
		style.Format.Header = text.FormatDefault
		t.SetStyle(style)

		headerRow := make(table.Row, len(res.Columns))
		for i, col := range res.Columns {
			headerRow[i] = col
		}
		t.AppendHeader(headerRow)

		for _, r := range res.Rows {
			row := make(table.Row, len(r))
			for i, v := range r {
				row[i] = v.String()
			}
			t.AppendRow(row)
		}
		t.Render()
	}
	_, _ = fmt.Fprintf(w, "%%ROWCOUNT = %d\n", res.RowCount)
	return nil
}

// records converts rows to column-keyed maps for structured output.
func records(res *queryResult) []map[string]any {
	out := make([]map[string]any, len(res.Rows))
	for i, r := range res.Rows {
		rec := make(map[string]any, len(r))
		for j, v := range r {
			rec[res.Columns[j]] = structuredValue(v)
		}
		out[i] = rec
	}
	return out
}

// structuredValue keeps booleans and integers native and renders every
// other type in its canonical text.
func structuredValue(v value.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case types.Bool, types.Short, types.Int, types.Bigint, types.Float, types.Double:
		return value.ToGo(v)
	default:
		return v.String()
	}
}

type structuredResult struct {
	Columns  []string         `json:"columns" yaml:"columns"`
	Rows     []map[string]any `json:"rows" yaml:"rows"`
	RowCount int64            `json:"rowcount" yaml:"rowcount"`
}

func renderJSON(w io.Writer, res *queryResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(structuredResult{Columns: res.Columns, Rows: records(res), RowCount: res.RowCount})
}

func renderYAML(w io.Writer, res *queryResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(structuredResult{Columns: res.Columns, Rows: records(res), RowCount: res.RowCount}); err != nil {
		return err
	}
	return enc.Close()
}

func renderCSV(w io.Writer, res *queryResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return err
	}
	for _, r := range res.Rows {
		rec := make([]string, len(r))
		for i, v := range r {
			rec[i] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderMarkdown(w io.Writer, res *queryResult) error {
	if len(res.Rows) > 0 {
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(res.Columns, " | "))
		seps := make([]string, len(res.Columns))
		for i := range seps {
			seps[i] = "---"
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

		for _, r := range res.Rows {
			cells := make([]string, len(r))
			for i, v := range r {
				cells[i] = escapeMarkdownCell(v.String())
			}
			_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintf(w, "%%ROWCOUNT = %d\n", res.RowCount)
	return nil
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}
