package commands

import (
	"errors"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapsp/pkg/core"
	"github.com/spf13/cobra"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "Show recorded script runs",
		Long: `Show the run history kept in the state database, newest first.

With an id, show that run only.`,
		Example: `  leapsp runs
  leapsp runs --limit 5 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")

	return cmd
}

func runRuns(cmd *cobra.Command, args []string, opts *RunsOptions) (err error) {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	store, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, store.Close()) }()

	var runs []*core.Run
	if len(args) == 1 {
		run, err := store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		runs = []*core.Run{run}
	} else {
		if runs, err = store.ListRuns(ctx, opts.Limit); err != nil {
			return err
		}
	}

	if ok, err := cc.Renderer.Structured(runs); ok {
		return err
	}

	if len(runs) == 0 {
		cc.Renderer.Muted("no runs recorded")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			shortID(r.ID),
			r.Script,
			r.Target,
			string(r.Status),
			strconv.Itoa(r.SQLCode),
			r.StartedAt.Local().Format(time.DateTime),
			runDuration(r),
			strconv.Itoa(r.Lines),
		}
	}
	cc.Renderer.Table([]string{"id", "script", "target", "status", "sqlcode", "started", "duration", "lines"}, rows)

	if len(runs) == 1 && runs[0].SQLErrM != "" {
		cc.Renderer.Println()
		cc.Renderer.Printf("SQLERRM: %s\n", runs[0].SQLErrM)
	}
	return nil
}

func runDuration(r *core.Run) string {
	if r.FinishedAt == nil {
		return "-"
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
