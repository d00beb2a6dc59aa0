// Package cli provides the command-line interface of symbol-extractor.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/awsl-dbq/sqlflow/internal/ctxlog"
)

// Execute creates and runs the root command.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// NewRootCommand returns the root command. Run without a subcommand it
// behaves like "generate".
func NewRootCommand() *cobra.Command {
	var (
		verbose bool
		config  GenerateConfig
	)

	rootCmd := &cobra.Command{
		Use:   "symbol-extractor",
		Short: "Export constructor parameter docs of model and optimizer classes as Go source",
		Long: `symbol-extractor introspects the model and optimizer classes listed in a
catalog, parses the parameter documentation out of their docstrings and
prints a Go source file holding the result as JSON string constants.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := newLogger(cmd.ErrOrStderr(), verbose)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Generate(cmd.Context(), &config, cmd.OutOrStdout())
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug details to stderr")
	bindGenerateFlags(rootCmd, &config)

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newDumpCommand())
	rootCmd.AddCommand(newModulesCommand())

	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
