// Package cli provides the command-line interface for ontolint.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/leapstack-labs/ontolint/internal/cli/commands"
	"github.com/leapstack-labs/ontolint/internal/cli/config"
	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/leapstack-labs/ontolint/pkg/quality"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// skipSetup lists commands that run without configuration.
var skipSetup = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"version":    true,
}

// session holds what the root command sets up for one invocation.
type session struct {
	logger *config.Logger
}

// close releases the log file.
func (s *session) close() error {
	if s.logger == nil {
		return nil
	}
	return s.logger.Close()
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *session) {
	var cfgFile string
	sess := &session{}

	rootCmd := &cobra.Command{
		Use:   "ontolint",
		Short: "ontolint - OntoUML catalog data quality checks",
		Long: `ontolint evaluates the datasets of an OntoUML model catalog for data
quality problems and writes the findings to one CSV report per check.

It also packages the catalog into a single release file and runs an
external Turtle syntax validator over every catalog file.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if skipSetup[cmd.Name()] {
				return nil
			}

			// Load configuration with CLI flags
			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.LogDir, cfg.Verbose, time.Now())
			if err != nil {
				return err
			}
			sess.logger = logger

			// Store config, logger and renderer in context
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = config.WithLogger(ctx, logger.Logger)
			mode := output.Mode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			if logger.Path != "" {
				logger.Debug("logging to file", "path", logger.Path)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Data quality checks for OntoUML model catalogs
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ontolint.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to the catalog root (default: .)")
	rootCmd.PersistentFlags().String("models-dir", "", "Datasets directory inside the catalog (default: models)")
	rootCmd.PersistentFlags().String("ontology-file", "", "Ontology file name inside each dataset (default: ontology.ttl)")
	rootCmd.PersistentFlags().String("results-dir", "", "Directory for the CSV reports (default: results)")
	rootCmd.PersistentFlags().String("log-dir", "", "Directory for run log files (default: logs)")
	rootCmd.PersistentFlags().String("state", "", "Path to the run ledger database")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file")
	rootCmd.PersistentFlags().StringSlice("check", nil, "Checks to run (char,ends,gens,ster)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for check flag
	_ = rootCmd.RegisterFlagCompletionFunc("check", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var ids []string
		for _, def := range quality.Definitions() {
			ids = append(ids, fmt.Sprintf("%s\t%s", def.ID, def.Description))
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(commands.NewReleaseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewChecksCommand())
	rootCmd.AddCommand(commands.NewRunsCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd, sess
}

// Execute runs the root command. A failure is logged as a single error line.
func Execute() error {
	rootCmd, sess := newRootCmd()
	return execute(rootCmd, sess, os.Stderr)
}

func execute(rootCmd *cobra.Command, sess *session, errOut io.Writer) error {
	defer func() { _ = sess.close() }()

	rootCmd.SetErr(errOut)
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return nil
	}

	logger := slog.New(slog.NewTextHandler(errOut, nil))
	if sess.logger != nil {
		logger = sess.logger.Logger
	}
	logger.Error(err.Error())
	return err
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return config.Default()
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ontolint.

To load completions:

Bash:
  $ source <(ontolint completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ ontolint completion bash > /etc/bash_completion.d/ontolint
  # macOS:
  $ ontolint completion bash > $(brew --prefix)/etc/bash_completion.d/ontolint

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ ontolint completion zsh > "${fpath[1]}/_ontolint"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ontolint completion fish | source

  # To load completions for each session, execute once:
  $ ontolint completion fish > ~/.config/fish/completions/ontolint.fish

PowerShell:
  PS> ontolint completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> ontolint completion powershell > ontolint.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
