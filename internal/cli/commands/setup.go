package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapsp/internal/cli/config"
	"github.com/leapstack-labs/leapsp/internal/cli/output"
	intconfig "github.com/leapstack-labs/leapsp/internal/config"
	"github.com/leapstack-labs/leapsp/internal/state"
	"github.com/leapstack-labs/leapsp/pkg/adapter"
	"github.com/leapstack-labs/leapsp/pkg/core"
	"github.com/leapstack-labs/leapsp/pkg/cursor"
	"github.com/spf13/cobra"

	// Adapters register themselves with the adapter registry.
	_ "github.com/leapstack-labs/leapsp/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapsp/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapsp/pkg/adapters/sqlite"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// Target is a connected adapter with a cursor connection over its pool.
type Target struct {
	Adapter adapter.Adapter
	Conn    cursor.Conn
}

// Close closes the adapter.
func (t *Target) Close() error {
	return t.Adapter.Close()
}

// OpenTarget connects to the configured target.
func (c *CommandContext) OpenTarget(ctx context.Context) (*Target, error) {
	if c.Cfg.Target == nil {
		return nil, fmt.Errorf("no target configured")
	}
	a, err := adapter.NewAdapter(c.Cfg.Target.AdapterConfig(), c.Logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, c.Cfg.Target.AdapterConfig()); err != nil {
		return nil, fmt.Errorf("failed to connect to %s target: %w", c.Cfg.Target.Type, err)
	}
	c.Logger.Debug("connected to target", "type", c.Cfg.Target.Type, "database", c.Cfg.Target.Database)
	return &Target{Adapter: a, Conn: cursor.NewSQLConn(a.DB())}, nil
}

// OpenStore opens the run history at the configured state path.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	return store, nil
}

// getConfig returns the current configuration, or defaults when none was
// loaded (commands constructed directly in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	target := &core.TargetConfig{}
	intconfig.ApplyTargetDefaults(target)
	return &config.Config{
		StatePath:    state.MemoryPath,
		Environment:  config.DefaultEnv,
		OutputFormat: config.DefaultOutput,
		LogLevel:     config.DefaultLogLevel,
		Target:       target,
	}
}
