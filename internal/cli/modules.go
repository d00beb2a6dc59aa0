package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/awsl-dbq/sqlflow/internal/introspect"
	"github.com/awsl-dbq/sqlflow/internal/report"
)

// ModulesConfig holds configuration for module dumps.
type ModulesConfig struct {
	Prefix       string
	SnapshotPath string
	Python       string
}

func newModulesCommand() *cobra.Command {
	var config ModulesConfig

	cmd := &cobra.Command{
		Use:   "modules MODULE...",
		Short: "Print the parameter documentation of every class in the given modules",
		Long: `modules extracts the parameter documentation of every class defined in the
given Python modules and prints it as one JSON object keyed by
"<module>.<Class>".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintModules(cmd.Context(), &config, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&config.Prefix, "prefix", ":param", "Marker introducing each parameter in the docstring")
	cmd.Flags().StringVar(&config.SnapshotPath, "snapshot", "", "Read symbols from a snapshot file instead of running Python")
	cmd.Flags().StringVar(&config.Python, "python", introspect.DefaultPython, "Python interpreter used for introspection")
	return cmd
}

// PrintModules writes the documentation of every class in modules as a
// single-line JSON object.
func PrintModules(ctx context.Context, config *ModulesConfig, modules []string, stdout io.Writer) error {
	src, err := newSource(&GenerateConfig{SnapshotPath: config.SnapshotPath, Python: config.Python})
	if err != nil {
		return err
	}

	symbols, err := src.Lookup(ctx, introspect.Request{Modules: modules})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report.Collect(config.Prefix, introspect.Index(symbols))); err != nil {
		return fmt.Errorf("encode module docs: %w", err)
	}
	return nil
}
