package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/leapsp/internal/cli/testutil"
	"github.com/leapstack-labs/leapsp/pkg/overload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectOps(t *testing.T) {
	reg := overload.Default()

	t.Run("single operator", func(t *testing.T) {
		entries, err := collectOps(reg, "Div", false)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		for _, e := range entries {
			assert.Equal(t, "Div", e.Name)
			assert.Equal(t, "arithmetic", e.Family)
			assert.Len(t, e.Params, 2)
			assert.False(t, e.Reserved)
		}
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := collectOps(reg, "Pow", false)
		assert.ErrorContains(t, err, `unknown operator "Pow"`)
	})

	t.Run("reserved hidden by default", func(t *testing.T) {
		visible, err := collectOps(reg, "", false)
		require.NoError(t, err)
		all, err := collectOps(reg, "", true)
		require.NoError(t, err)
		assert.Greater(t, len(all), len(visible))

		var reserved int
		for _, e := range all {
			if e.Reserved {
				reserved++
			}
		}
		assert.Equal(t, len(all)-len(visible), reserved)
	})
}

func TestFamilyOf(t *testing.T) {
	tests := map[string]string{
		"Add":        "arithmetic",
		"BitXor":     "bitwise",
		"NullSafeEq": "comparison",
		"Xor":        "logical",
		"Like":       "string",
		"Whatever":   "other",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, familyOf(name))
		})
	}
}

func TestOpsCommand(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		out, _, err := execute(t, NewOpsCommand(), "Concat")
		require.NoError(t, err)
		assert.Contains(t, out, "## String")
		assert.Contains(t, out, "Concat(")
		assert.Contains(t, out, "overloads")
		assert.NotContains(t, out, "## Arithmetic")
	})

	t.Run("json", func(t *testing.T) {
		useProject(t, testutil.DefaultProjectConfig+"output: json\n", nil)

		out, _, err := execute(t, NewOpsCommand(), "Mod")
		require.NoError(t, err)

		var entries []opEntry
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.NotEmpty(t, entries)
		assert.Equal(t, "Mod", entries[0].Name)
	})
}
