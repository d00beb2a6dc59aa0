package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/awsl-dbq/sqlflow/internal/catalog"
	"github.com/awsl-dbq/sqlflow/internal/ctxlog"
	"github.com/awsl-dbq/sqlflow/internal/introspect"
	"github.com/awsl-dbq/sqlflow/internal/report"
)

func newGenerateCommand() *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the Go source holding the parameter documentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Generate(cmd.Context(), &config, cmd.OutOrStdout())
		},
	}
	bindGenerateFlags(cmd, &config)
	return cmd
}

func bindGenerateFlags(cmd *cobra.Command, config *GenerateConfig) {
	cmd.Flags().StringVar(&config.CatalogPath, "config", "", "Catalog YAML file (defaults to the built-in catalog)")
	cmd.Flags().StringVar(&config.SnapshotPath, "snapshot", "", "Read symbols from a snapshot file instead of running Python")
	cmd.Flags().StringVar(&config.Python, "python", introspect.DefaultPython, "Python interpreter used for introspection")
	cmd.Flags().StringVarP(&config.OutputPath, "output", "o", "-", "Path to output file or '-' for stdout")
	cmd.Flags().StringVar(&config.Package, "package", "", "Override the package name of the generated file")
}

// GenerateConfig holds configuration for source generation.
type GenerateConfig struct {
	CatalogPath  string
	SnapshotPath string
	Python       string
	OutputPath   string
	Package      string
}

// defaultRunner replaces the Python runner in tests.
var defaultRunner introspect.Runner

// Generate builds every report of the catalog and writes the generated
// source. Nothing is written unless all reports were built.
func Generate(ctx context.Context, config *GenerateConfig, stdout io.Writer) error {
	log := ctxlog.FromContext(ctx)

	cat, err := loadCatalog(config)
	if err != nil {
		return err
	}

	src, err := newSource(config)
	if err != nil {
		return err
	}

	symbols, err := src.Lookup(ctx, introspect.Request{Targets: cat.Targets()})
	if err != nil {
		return err
	}

	reports, err := report.Build(ctx, cat, introspect.Index(symbols))
	if err != nil {
		return err
	}

	out, err := report.Render(cat, reports)
	if err != nil {
		return err
	}

	log.Debug("generated", "package", cat.Package, "reports", len(reports), "bytes", len(out))
	return writeOutput(out, config.OutputPath, stdout)
}

func loadCatalog(config *GenerateConfig) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if config.CatalogPath == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.Load(config.CatalogPath)
	}
	if err != nil {
		return nil, err
	}

	if config.Package != "" {
		cat.Package = config.Package
		if err := cat.Validate(); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func newSource(config *GenerateConfig) (introspect.Source, error) {
	if config.SnapshotPath != "" {
		return introspect.LoadSnapshot(config.SnapshotPath)
	}
	runner := defaultRunner
	if runner == nil {
		runner = &introspect.ExecRunner{Python: config.Python}
	}
	return introspect.NewPythonSource(runner), nil
}

func writeOutput(data []byte, outputPath string, stdout io.Writer) error {
	if outputPath == "" || outputPath == "-" {
		_, err := stdout.Write(data)
		return err
	}

	outDir := filepath.Dir(outputPath)
	if fi, err := os.Stat(outDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory %s does not exist", outDir)
		}
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outDir)
	}

	return os.WriteFile(outputPath, data, 0o644) // #nosec G306
}
