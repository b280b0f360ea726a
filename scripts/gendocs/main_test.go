package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAll(t *testing.T) {
	docs := t.TempDir()
	require.NoError(t, generate("all", "", docs))

	for _, f := range []string{"cli/index.md", "cli/run.md", "cli/ops.md", "reference/operators.md", "reference/configuration.md"} {
		assert.FileExists(t, filepath.Join(docs, filepath.FromSlash(f)))
	}

	ops, err := os.ReadFile(filepath.Join(docs, "reference", "operators.md"))
	require.NoError(t, err)
	assert.Contains(t, string(ops), "## Div")
	assert.Contains(t, string(ops), "reserved")
	assert.Equal(t, 0, strings.Count(string(ops), "```")%2)

	run, err := os.ReadFile(filepath.Join(docs, "cli", "run.md"))
	require.NoError(t, err)
	assert.Contains(t, string(run), "`--watch`")
	assert.Contains(t, string(run), "leapsp run")
}

func TestGenerate_SingleWithOutDir(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, generate("config", out, t.TempDir()))
	data, err := os.ReadFile(filepath.Join(out, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "`state_path`")
	assert.Contains(t, string(data), "## Decimal Arithmetic")
}

func TestGenerate_Unknown(t *testing.T) {
	assert.ErrorContains(t, generate("lint", "", t.TempDir()), "unknown -gen value: lint")
}

func TestCleanExample(t *testing.T) {
	got := cleanExample("  # comment\n  leapsp run a.star\n\n    nested")
	assert.Equal(t, "# comment\nleapsp run a.star\n\n  nested", got)
}

func TestCLIIndex_EnvAndConditions(t *testing.T) {
	docs := t.TempDir()
	require.NoError(t, generateCLIDocs(docs))
	data, err := os.ReadFile(filepath.Join(docs, "index.md"))
	require.NoError(t, err)
	index := string(data)

	for _, want := range []string{"`LEAPSP_STATE_PATH`", "`LEAPSP_TARGET__TYPE`", "`LEAPSP_DECIMAL__ROUNDING`", "## Exit Status"} {
		assert.Contains(t, index, want)
	}
	for _, k := range cond.Kinds() {
		assert.Contains(t, index, "`"+string(k)+"`")
	}
	assert.NotContains(t, index, "[`help`]")
}
