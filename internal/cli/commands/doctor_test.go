package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapsp/internal/cli/testutil"
	"github.com/leapstack-labs/leapsp/pkg/overload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorCommand_Healthy(t *testing.T) {
	useProject(t, "", nil)

	out, _, err := execute(t, NewDoctorCommand())
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# leapsp doctor")
	assert.Contains(t, out, "## Target")
	assert.Contains(t, out, "**[PASS]** connect to sqlite")
	assert.NotContains(t, out, "[ERROR]")
}

func TestDoctorCommand_BrokenTarget(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "db.sqlite")
	useProject(t, "target:\n  type: sqlite\n  database: "+missing+"\noutput: json\n", nil)

	out, _, err := execute(t, NewDoctorCommand())
	assert.ErrorContains(t, err, "1 check(s) failed")

	var res DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Errors)
	for _, c := range res.Checks {
		if c.Group == "target" {
			assert.Equal(t, checkError, c.Status)
			assert.NotEmpty(t, c.Detail)
		} else {
			assert.NotEqual(t, checkError, c.Status, c.Name)
		}
	}
}

func TestDoctorCommand_NoConfigWarns(t *testing.T) {
	cc := NewCommandContext(NewDoctorCommand())
	checks := cc.healthChecks(t.Context())
	require.NotEmpty(t, checks)
	assert.Equal(t, "config file", checks[0].Name)
	assert.Equal(t, checkWarn, checks[0].Status)
}

func TestCheckOverloads(t *testing.T) {
	assert.NoError(t, checkOverloads(overload.Default()))
}
