package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapsp/internal/cli"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs writes index.md and one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string]*MarkdownWriter{"index": cliIndex(root)}
	for _, cmd := range visibleCommands(root) {
		pages[cmd.Name()] = commandPage(cmd)
	}

	for name, w := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name+".md"), w.Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to write %s.md: %w", name, err)
		}
		log.Printf("  Generated %s.md", name)
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for leapsp")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanDescription(root.Long))
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leapsp/cmd/leapsp@latest\nleapsp <command> [options]")

	w.Header(2, "Commands")
	var cmds [][]string
	for _, cmd := range visibleCommands(root) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		cmds = append(cmds, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, cmds)

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(root.PersistentFlags()))

	w.Header(2, "Environment Variables")
	w.Paragraph("Configuration keys map to `LEAPSP_` variables; a double underscore descends into a section. Flags win over the environment.")
	w.Table([]string{"Variable", "Description"}, envRows())

	w.Header(2, "Exit Status")
	w.Paragraph("leapsp exits 0 on success and 1 on any error. A condition a procedure does not catch ends `run` with status 1 and is reported as `file:line: uncaught condition (SQLCODE n): message`.")
	var conds [][]string
	for _, k := range cond.Kinds() {
		conds = append(conds, []string{InlineCode(string(k)), strconv.Itoa(k.Code()), k.Message()})
	}
	w.Table([]string{"Condition", "SQLCODE", "Default SQLERRM"}, conds)
	return w
}

// envRows derives the variable names from the configuration schema.
func envRows() [][]string {
	var rows [][]string
	for _, f := range getConfigSchema() {
		name := "LEAPSP_" + strings.ToUpper(f.Name)
		if f.Category != "project" {
			name = "LEAPSP_" + strings.ToUpper(f.Category) + "__" + strings.ToUpper(f.Name)
		}
		rows = append(rows, []string{InlineCode(name), f.Description})
	}
	return rows
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	use := cmd.UseLine()
	if !strings.HasPrefix(use, "leapsp") {
		use = "leapsp " + use
	}
	w.CodeBlock("bash", use)

	if len(cmd.Aliases) > 0 {
		var aliases []string
		for _, a := range cmd.Aliases {
			aliases = append(aliases, InlineCode(a))
		}
		w.Header(2, "Aliases")
		w.BulletList(aliases)
	}

	if rows := flagRows(cmd.LocalNonPersistentFlags()); len(rows) > 0 {
		w.Header(2, "Options")
		w.Table(flagHeaders, rows)
	}
	if rows := flagRows(cmd.InheritedFlags()); len(rows) > 0 {
		w.Header(2, "Global Options")
		w.Table(flagHeaders, rows)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w
}

var flagHeaders = []string{"Option", "Short", "Default", "Description"}

func flagRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		switch f.Value.Type() {
		case "string", "stringArray", "stringSlice":
			if def != "" && def != "[]" {
				def = InlineCode(def)
			} else {
				def = ""
			}
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	return rows
}

// cleanExample strips the indentation every non-blank line shares.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	indent := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
