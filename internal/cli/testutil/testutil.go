// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapsp/internal/cli/config"
	"github.com/leapstack-labs/leapsp/internal/cli/output"
)

// DefaultProjectConfig targets an in-memory SQLite database and keeps the
// run history inside the project.
const DefaultProjectConfig = `target:
  type: sqlite
  database: ":memory:"
state_path: .leapsp/runs.db
`

// SetupTestProject creates a temporary project with cfg as leapsp.yaml and
// the given scripts under procs/. An empty cfg uses DefaultProjectConfig.
func SetupTestProject(t *testing.T, cfg string, scripts map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	if cfg == "" {
		cfg = DefaultProjectConfig
	}
	if err := os.WriteFile(filepath.Join(dir, "leapsp.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatalf("failed to write leapsp.yaml: %v", err)
	}

	if len(scripts) > 0 {
		if err := os.MkdirAll(filepath.Join(dir, "procs"), 0o750); err != nil {
			t.Fatalf("failed to create procs: %v", err)
		}
	}
	for name, src := range scripts {
		if err := os.WriteFile(filepath.Join(dir, "procs", name), []byte(src), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// LoadProjectConfig loads dir/leapsp.yaml as the current configuration for
// the duration of the test.
func LoadProjectConfig(t *testing.T, dir string) *config.Config {
	t.Helper()

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig(filepath.Join(dir, "leapsp.yaml"), nil)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
