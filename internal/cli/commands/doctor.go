package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapsp/internal/cli/config"
	"github.com/leapstack-labs/leapsp/internal/cli/output"
	"github.com/leapstack-labs/leapsp/pkg/overload"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Check statuses.
const (
	checkPass  = "pass"
	checkWarn  = "warn"
	checkError = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration, target and run history",
		Long: `Check that leapsp can run procedures in this project.

The doctor command verifies:
- Configuration (config file, decimal settings)
- Target (adapter registered, connection, a cursor round trip)
- Run history (state database opens and is migrated)
- Operators (the overload table is complete)`,
		Example: `  leapsp doctor
  leapsp doctor -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

// DoctorOutput is the structured output of the doctor command.
type DoctorOutput struct {
	Checks []HealthCheck `json:"checks" yaml:"checks"`
	Errors int           `json:"errors" yaml:"errors"`
}

// HealthCheck is one check result.
type HealthCheck struct {
	Group  string `json:"group" yaml:"group"`
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	out := &DoctorOutput{Checks: cc.healthChecks(cmd.Context())}
	for _, c := range out.Checks {
		if c.Status == checkError {
			out.Errors++
		}
	}

	if ok, err := cc.Renderer.Structured(out); !ok {
		if cc.Renderer.EffectiveMode() == output.ModeMarkdown {
			renderDoctorMarkdown(cc.Renderer, out)
		} else {
			renderDoctorText(cc.Renderer, out)
		}
	} else if err != nil {
		return err
	}

	if out.Errors > 0 {
		return fmt.Errorf("%d check(s) failed", out.Errors)
	}
	return nil
}

func (c *CommandContext) healthChecks(ctx context.Context) []HealthCheck {
	var checks []HealthCheck
	add := func(group, name string, err error, warnDetail string) {
		hc := HealthCheck{Group: group, Name: name, Status: checkPass}
		switch {
		case err != nil:
			hc.Status, hc.Detail = checkError, err.Error()
		case warnDetail != "":
			hc.Status, hc.Detail = checkWarn, warnDetail
		}
		checks = append(checks, hc)
	}

	cfgWarn := ""
	if config.GetConfigFileUsed() == "" {
		cfgWarn = "no leapsp.yaml found, using defaults"
	}
	add("configuration", "config file", nil, cfgWarn)

	_, roundErr := c.Cfg.DecimalSettings().OpRounding()
	add("configuration", "decimal settings", roundErr, "")

	add("target", "connect to "+c.Cfg.Target.Type, c.checkTarget(ctx), "")

	add("run history", "open "+c.Cfg.StatePath, c.checkStore(), "")

	add("operators", "overload table", checkOverloads(overload.Default()), "")

	return checks
}

// checkTarget connects and fetches one row through a cursor.
func (c *CommandContext) checkTarget(ctx context.Context) (err error) {
	target, err := c.OpenTarget(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, target.Close()) }()

	res, err := fetchAll(ctx, target.Conn, c.Logger, "SELECT 1", nil)
	if err != nil {
		return err
	}
	if res.RowCount != 1 {
		return fmt.Errorf("SELECT 1 returned %d rows", res.RowCount)
	}
	return nil
}

func (c *CommandContext) checkStore() error {
	store, err := c.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	_, err = store.MigrationVersion()
	return err
}

// checkOverloads verifies that every operator has a callable overload.
func checkOverloads(reg *overload.Registry) error {
	var missing []string
	for _, name := range reg.Operators() {
		callable := false
		for _, o := range reg.Lookup(name) {
			if !o.Reserved {
				callable = true
				break
			}
		}
		if !callable {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("operators without a callable overload: %s", strings.Join(missing, ", "))
	}
	return nil
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()
	titleCaser := cases.Title(language.English)

	r.Println(styles.Header1.Render("leapsp doctor"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 40)))

	currentGroup := ""
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println()
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case checkWarn:
			icon = styles.Warning.Render("!")
		case checkError:
			icon = styles.Error.Render("✗")
		}
		r.Printf("   %s %s\n", icon, check.Name)
		if check.Detail != "" {
			r.Println(styles.Muted.Render("       " + check.Detail))
		}
	}
	r.Println()
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println(output.FormatHeader(1, "leapsp doctor"))

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println()
			r.Println(output.FormatHeader(2, titleCaser.String(currentGroup)))
			r.Println()
		}
		r.Printf("- **[%s]** %s\n", strings.ToUpper(check.Status), check.Name)
		if check.Detail != "" {
			r.Printf("  - %s\n", check.Detail)
		}
	}
}
