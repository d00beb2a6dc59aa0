package cli

import (
	"bytes"
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/awsl-dbq/sqlflow/internal/introspect"
)

// DumpConfig holds configuration for snapshot dumps.
type DumpConfig struct {
	CatalogPath string
	Python      string
	OutputPath  string
	Modules     []string
}

func newDumpCommand() *cobra.Command {
	var config DumpConfig

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Record the signatures and docstrings of the catalog targets as a snapshot",
		Long: `dump introspects every catalog target with Python and writes the result as
a YAML snapshot. Pass the snapshot to "generate --snapshot" to regenerate
without the inspected libraries installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Dump(cmd.Context(), &config, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&config.CatalogPath, "config", "", "Catalog YAML file (defaults to the built-in catalog)")
	cmd.Flags().StringVar(&config.Python, "python", introspect.DefaultPython, "Python interpreter used for introspection")
	cmd.Flags().StringVarP(&config.OutputPath, "output", "o", "-", "Path to output file or '-' for stdout")
	cmd.Flags().StringSliceVar(&config.Modules, "module", nil, "Also record every class of these modules")
	return cmd
}

// Dump writes a snapshot of the catalog targets and the requested modules.
func Dump(ctx context.Context, config *DumpConfig, stdout io.Writer) error {
	cat, err := loadCatalog(&GenerateConfig{CatalogPath: config.CatalogPath})
	if err != nil {
		return err
	}

	src, err := newSource(&GenerateConfig{Python: config.Python})
	if err != nil {
		return err
	}

	symbols, err := src.Lookup(ctx, introspect.Request{Targets: cat.Targets(), Modules: config.Modules})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := introspect.WriteSnapshot(&buf, symbols); err != nil {
		return err
	}
	return writeOutput(buf.Bytes(), config.OutputPath, stdout)
}
