// Command symbol-extractor prints the constructor parameter documentation of
// the supported model and optimizer classes as Go source:
//
//	symbol-extractor > model_parameters.go
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/awsl-dbq/sqlflow/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
