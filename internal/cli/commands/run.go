package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapsp/internal/proc"
	starctx "github.com/leapstack-labs/leapsp/internal/starlark"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/leapstack-labs/leapsp/pkg/core"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// watchDebounce is how long a burst of writes must settle before a re-run.
const watchDebounce = 150 * time.Millisecond

// RunOptions holds options for the run command.
type RunOptions struct {
	Watch     bool
	Args      []string
	ArgsFile  string
	NoHistory bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <script.star>",
		Short: "Execute a procedure script",
		Long: `Execute a procedure script against the configured target.

The script runs once with a fresh SQLCODE/SQLERRM context. PUT_LINE output
goes to stdout. Each run is recorded in the run history unless --no-history
is given. An uncaught condition fails the command with its SQLCODE.`,
		Example: `  # Run a script against the default target
  leapsp run payroll.star

  # Pass arguments, visible to the script as args["dept"]
  leapsp run payroll.star --arg dept=10 --arg cutoff=date:2024-01-31

  # Re-run whenever the script changes
  leapsp run payroll.star --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the script when it changes")
	cmd.Flags().StringArrayVar(&opts.Args, "arg", nil, "Script argument as key=value (value may be TYPE:text)")
	cmd.Flags().StringVar(&opts.ArgsFile, "args-file", "", "YAML file of script arguments")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record the run")

	return cmd
}

func runScript(cmd *cobra.Command, path string, opts *RunOptions) error {
	cc := NewCommandContext(cmd)

	args, err := loadScriptArgs(opts)
	if err != nil {
		return err
	}

	if !opts.Watch {
		return cc.runOnce(cmd.Context(), path, args, !opts.NoHistory)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cc.watch(ctx, path, func(ctx context.Context) {
		if err := cc.runOnce(ctx, path, args, !opts.NoHistory); err != nil {
			cc.Renderer.Error(err.Error())
		}
	})
}

// runOnce executes the script at path in a fresh procedure context and
// records the outcome.
func (c *CommandContext) runOnce(ctx context.Context, path string, args map[string]any, record bool) (err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	rounding, err := c.Cfg.DecimalSettings().OpRounding()
	if err != nil {
		return fmt.Errorf("invalid decimal configuration: %w", err)
	}

	target, err := c.OpenTarget(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, target.Close()) }()

	pc := proc.New(proc.Lines(c.Renderer.Writer()), proc.WithLogger(c.Logger))
	host := starctx.NewHost(pc,
		starctx.WithConn(target.Conn),
		starctx.WithRounding(rounding),
		starctx.WithTarget(starctx.TargetInfoFromConfig(c.Cfg.Target)),
		starctx.WithArgs(args),
	)

	var finish func(core.RunResult)
	if record {
		finish, err = c.recordRun(ctx, path)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	runErr := host.Exec(ctx, path, src)
	res := pc.Result(runErr)
	if finish != nil {
		finish(res)
	}

	c.Logger.Info("script finished",
		"script", path,
		"status", res.Status,
		"sqlcode", res.SQLCode,
		"lines", res.Lines,
		"duration", time.Since(start))

	if runErr != nil {
		return describeFailure(path, runErr, res)
	}
	if c.Cfg.Verbose {
		c.Renderer.Success(fmt.Sprintf("%s completed in %s", filepath.Base(path), time.Since(start).Round(time.Millisecond)))
	}
	return nil
}

// recordRun starts a run in the history and returns the function that
// finishes it. History failures are logged and never fail the script.
func (c *CommandContext) recordRun(ctx context.Context, path string) (func(core.RunResult), error) {
	store, err := c.OpenStore()
	if err != nil {
		return nil, err
	}
	run, err := store.StartRun(ctx, path, c.Cfg.Target.Type)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return func(res core.RunResult) {
		// the script context may be cancelled by now
		if err := store.FinishRun(context.WithoutCancel(ctx), run.ID, res); err != nil {
			c.Logger.Warn("failed to record run", "id", run.ID, "error", err)
		}
		_ = store.Close()
	}, nil
}

func describeFailure(path string, runErr error, res core.RunResult) error {
	var evalErr *starctx.EvalError
	if _, isCond := cond.KindOf(runErr); isCond && errors.As(runErr, &evalErr) {
		return fmt.Errorf("%s:%d: uncaught condition (SQLCODE %d): %s",
			filepath.Base(path), evalErr.Line, res.SQLCode, res.SQLErrM)
	}
	return runErr
}

// watch runs fn once, then again after every change to path, until ctx is
// done.
func (c *CommandContext) watch(ctx context.Context, path string, fn func(context.Context)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	changed := make(chan struct{}, 1)
	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var debounceTimer *time.Timer
		defer func() {
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
		}()
		for {
			select {
			case <-egctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, func() {
					select {
					case changed <- struct{}{}:
					default:
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				c.Logger.Error("watcher error", "error", err)
			}
		}
	})

	eg.Go(func() error {
		fn(egctx)
		c.Renderer.Muted(fmt.Sprintf("watching %s (ctrl-c to stop)", path))
		for {
			select {
			case <-egctx.Done():
				return nil
			case <-changed:
				c.Logger.Debug("script changed, re-running", "file", abs)
				fn(egctx)
			}
		}
	})

	return eg.Wait()
}

// loadScriptArgs merges --args-file and --arg values; --arg wins.
func loadScriptArgs(opts *RunOptions) (map[string]any, error) {
	args := map[string]any{}

	if opts.ArgsFile != "" {
		data, err := os.ReadFile(opts.ArgsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read args file: %w", err)
		}
		if err := yaml.Unmarshal(data, &args); err != nil {
			return nil, fmt.Errorf("failed to parse args file %s: %w", opts.ArgsFile, err)
		}
	}

	for _, kv := range opts.Args {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q (want key=value)", kv)
		}
		args[key] = parseArgValue(raw)
	}
	return args, nil
}

// parseArgValue reads TYPE:text as a typed value and anything else as a string.
func parseArgValue(raw string) any {
	if v, err := value.ParseTyped(raw); err == nil {
		return v
	}
	return raw
}
