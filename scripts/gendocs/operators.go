package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapsp/pkg/overload"
)

// operatorNotes describes behavior the signature table does not show.
var operatorNotes = map[string]string{
	"And":        "Three-valued: FALSE wins over NULL.",
	"Or":         "Three-valued: TRUE wins over NULL.",
	"NullSafeEq": "Never NULL: two NULLs compare equal.",
	"IsNull":     "Never NULL.",
	"Between":    "NULL when any bound comparison is NULL.",
	"In":         "TRUE on a match, else NULL when any candidate is NULL.",
	"Div":        "Raises ZERO_DIVIDE on a zero divisor. NUMERIC results keep the configured precision.",
	"DivInt":     "Raises ZERO_DIVIDE on a zero divisor.",
	"Mod":        "Raises ZERO_DIVIDE on a zero divisor.",
	"Like":       "% matches any run of characters, _ exactly one.",
	"Concat":     "NULL when either operand is NULL.",
}

// generateOperatorDocs writes the operator signature reference.
func generateOperatorDocs(outDir string) error {
	log.Printf("Generating operator docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reg := overload.Default()
	w := NewMarkdownWriter()
	w.Frontmatter("Operators", "Operator overloads available to procedures")
	w.GeneratedMarker()

	w.Header(1, "Operators")
	w.Paragraph("Every operator is resolved by the exact types of its operands. Unless noted, any NULL operand gives a NULL result of the overload's result type. Overloads marked reserved resolve but raise when called.")

	var summary [][]string
	for _, name := range reg.Operators() {
		summary = append(summary, []string{
			fmt.Sprintf("[%s](#%s)", InlineCode(name), strings.ToLower(name)),
			fmt.Sprint(len(reg.Lookup(name))),
			operatorNotes[name],
		})
	}
	w.Table([]string{"Operator", "Overloads", "Notes"}, summary)

	for _, name := range reg.Operators() {
		w.Header(2, name)
		if note := operatorNotes[name]; note != "" {
			w.Paragraph(note)
		}
		var rows [][]string
		for _, o := range reg.Lookup(name) {
			status := ""
			if o.Reserved {
				status = "reserved"
			}
			rows = append(rows, []string{InlineCode(o.Signature()), status})
		}
		w.Table([]string{"Signature", "Status"}, rows)
	}

	filename := filepath.Join(outDir, "operators.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated operators.md")
	return nil
}
