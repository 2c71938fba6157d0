package commands

import (
	"log/slog"

	"github.com/leapstack-labs/ontolint/internal/cli/config"
	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/leapstack-labs/ontolint/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenLedger opens the run ledger. It returns a nil store when state_path
// is empty. The cleanup function must be called (typically via defer).
func (c *CommandContext) OpenLedger() (*state.SQLiteStore, func(), error) {
	if c.Cfg.StatePath == "" {
		return nil, func() {}, nil
	}

	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("failed to close state database", "path", c.Cfg.StatePath, "error", err)
		}
	}
	return store, cleanup, nil
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
