package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapsp/internal/state"
	"github.com/leapstack-labs/leapsp/pkg/cursor"
	"github.com/spf13/cobra"
)

const (
	replPrompt         = "leapsp> "
	replContinuePrompt = "   ...> "
)

var replFormats = []string{"table", "json", "yaml", "csv", "md"}

// repl is one interactive query session.
type repl struct {
	cmd    *cobra.Command
	cc     *CommandContext
	conn   cursor.Conn
	format string
}

func runQueryREPL(cmd *cobra.Command, cc *CommandContext, conn cursor.Conn, format string) error {
	historyFile := ""
	if cc.Cfg.StatePath != state.MemoryPath {
		historyFile = filepath.Join(filepath.Dir(cc.Cfg.StatePath), "query_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := &repl{cmd: cmd, cc: cc, conn: conn, format: format}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "leapsp query REPL (target: %s %s)\n", cc.Cfg.Target.Type, cc.Cfg.Target.Database)
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	var pending statementBuffer
	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			pending.Reset()
			rl.SetPrompt(replPrompt)
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if pending.Empty() && strings.HasPrefix(line, ".") {
			if r.handleDotCommand(line) {
				return nil
			}
			continue
		}

		query, done := pending.Feed(line)
		if !done {
			if !pending.Empty() {
				rl.SetPrompt(replContinuePrompt)
			}
			continue
		}
		rl.SetPrompt(replPrompt)
		r.execute(query)
	}
}

// statementBuffer joins input lines until one ends with a semicolon.
type statementBuffer struct {
	parts []string
}

// Feed adds a line and returns the statement, without its terminator, once
// the line ends it. Blank lines are ignored.
func (b *statementBuffer) Feed(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	b.parts = append(b.parts, line)
	if !strings.HasSuffix(line, ";") {
		return "", false
	}
	stmt := strings.TrimSpace(strings.TrimSuffix(strings.Join(b.parts, " "), ";"))
	b.Reset()
	return stmt, true
}

func (b *statementBuffer) Empty() bool { return len(b.parts) == 0 }

func (b *statementBuffer) Reset() { b.parts = b.parts[:0] }

func (r *repl) execute(query string) {
	err := executeAndRender(r.cmd.Context(), r.cmd.OutOrStdout(), r.cc.Logger, r.conn, query, nil, r.format)
	if err != nil {
		_, _ = fmt.Fprintf(r.cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(r.cmd.OutOrStdout())
}

// handleDotCommand runs a dot-command and reports whether the REPL should exit.
func (r *repl) handleDotCommand(line string) (quit bool) {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	out, errOut := r.cmd.OutOrStdout(), r.cmd.ErrOrStderr()

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)

	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(out, "format: %s\n", r.format)
			return false
		}
		f := strings.ToLower(parts[1])
		if !slices.Contains(replFormats, f) {
			_, _ = fmt.Fprintf(errOut, "Unknown format: %s (want %s)\n", f, strings.Join(replFormats, ", "))
			return false
		}
		r.format = f

	case ".target":
		t := r.cc.Cfg.Target
		_, _ = fmt.Fprintf(out, "type: %s\ndatabase: %s\nschema: %s\n", t.Type, t.Database, t.Schema)

	case ".clear":
		_, _ = fmt.Fprint(out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .format [name]   Show or set the output format (table, json, yaml, csv, md)
  .target          Show the connected target
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Each statement runs through a fresh cursor and reports %ROWCOUNT
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func newREPLCompleter() *readline.PrefixCompleter {
	formats := make([]readline.PrefixCompleterInterface, len(replFormats))
	for i, f := range replFormats {
		formats[i] = readline.PcItem(f)
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".format", formats...),
		readline.PcItem(".target"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
		readline.PcItem("SELECT"),
		readline.PcItem("WITH"),
		readline.PcItem("VALUES"),
	)
}
