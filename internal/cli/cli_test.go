package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsl-dbq/sqlflow/internal/introspect"
)

const (
	testCatalog  = "testdata/catalog.yml"
	testSnapshot = "testdata/snapshot.yml"
	testGolden   = "testdata/model_parameters.golden"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func golden(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(testGolden)
	require.NoError(t, err)
	return string(data)
}

// fakeRunner answers introspection requests without a Python interpreter.
// Every target gets the same signature and docstring.
type fakeRunner struct {
	requests []introspect.Request
	err      error
}

func (f *fakeRunner) Run(_ context.Context, _ string, stdin []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	var req introspect.Request
	if err := json.Unmarshal(stdin, &req); err != nil {
		return nil, err
	}
	f.requests = append(f.requests, req)

	doc := "Args:\n  learning_rate: Step size, a `float`.\n  booster: Which booster.\n  **kwargs: Ignored."
	var symbols []introspect.Symbol
	for _, target := range req.Targets {
		symbols = append(symbols, introspect.Symbol{
			Name:   target,
			Params: []string{"learning_rate", "booster", "kwargs"},
			Doc:    &doc,
		})
	}
	for _, m := range req.Modules {
		symbols = append(symbols, introspect.Symbol{Name: m + ".Model", Params: []string{"learning_rate"}, Doc: &doc})
	}
	return json.Marshal(map[string]any{"symbols": symbols})
}

func withRunner(t *testing.T, r introspect.Runner) {
	t.Helper()
	prev := defaultRunner
	defaultRunner = r
	t.Cleanup(func() { defaultRunner = prev })
}

func TestRootGeneratesFromSnapshot(t *testing.T) {
	stdout, _, err := execute(t, "--config", testCatalog, "--snapshot", testSnapshot)
	require.NoError(t, err)
	assert.Equal(t, golden(t), stdout)
}

func TestGenerateCommandWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "model_parameters.go")

	stdout, _, err := execute(t, "generate", "--config", testCatalog, "--snapshot", testSnapshot, "--output", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, golden(t), string(data))
}

func TestGenerateOutputDirectoryMissing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "model_parameters.go")

	_, _, err := execute(t, "generate", "--config", testCatalog, "--snapshot", testSnapshot, "-o", out)
	assert.ErrorContains(t, err, "does not exist")
}

func TestGeneratePackageOverride(t *testing.T) {
	stdout, _, err := execute(t, "--config", testCatalog, "--snapshot", testSnapshot, "--package", "params")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\npackage params\n")

	_, _, err = execute(t, "--config", testCatalog, "--snapshot", testSnapshot, "--package", "not-a-package")
	assert.ErrorContains(t, err, "package: goident")
}

func TestGenerateFailsWithoutPartialOutput(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "catalog.yml")
	content := `package: attribute
generator: test
reports:
  - const: ModelParameterJSON
    entries:
      - key: Adam
        target: tensorflow.optimizers.Adam
  - const: OptimizerParameterJSON
    entries:
      - key: Missing
        target: tensorflow.optimizers.Missing
`
	require.NoError(t, os.WriteFile(catalog, []byte(content), 0o644))

	stdout, _, err := execute(t, "--config", catalog, "--snapshot", testSnapshot)
	assert.ErrorIs(t, err, introspect.ErrTargetNotFound)
	assert.Empty(t, stdout)
}

func TestGenerateWithPython(t *testing.T) {
	runner := &fakeRunner{}
	withRunner(t, runner)

	stdout, _, err := execute(t)
	require.NoError(t, err)

	require.Len(t, runner.requests, 1)
	assert.Len(t, runner.requests[0].Targets, 17)

	require.True(t, strings.HasPrefix(stdout, "// Code generated by symbol-extractor > model_parameters.go. DO NOT EDIT.\n\npackage attribute\n"))
	assert.Contains(t, stdout, "const ModelParameterJSON = `\n{\n")
	assert.Contains(t, stdout, "\n`\n\nconst OptimizerParameterJSON = `\n{\n")
	assert.Contains(t, stdout, `"learning_rate": "Step size, a 'float'."`)

	// 16 single keys plus three xgboost keys; booster is dropped for the
	// xgboost keys only.
	assert.Equal(t, 19, strings.Count(stdout, `"learning_rate"`))
	assert.Equal(t, 16, strings.Count(stdout, `"booster"`))
	assert.Contains(t, stdout, `"xgboost.dart": {`)
}

func TestGeneratePythonFailure(t *testing.T) {
	withRunner(t, &fakeRunner{err: errors.New("exit status 1: ModuleNotFoundError: No module named 'tensorflow'")})

	stdout, _, err := execute(t, "generate")
	assert.ErrorContains(t, err, "No module named 'tensorflow'")
	assert.Empty(t, stdout)
}

func TestDump(t *testing.T) {
	runner := &fakeRunner{}
	withRunner(t, runner)
	out := filepath.Join(t.TempDir(), "snapshot.yml")

	_, _, err := execute(t, "dump", "--config", testCatalog, "--module", "sqlflow_models", "-o", out)
	require.NoError(t, err)

	require.Len(t, runner.requests, 1)
	assert.Equal(t, []string{"tensorflow.estimator.DNNClassifier", "xgboost.XGBModel", "tensorflow.optimizers.Adam"}, runner.requests[0].Targets)
	assert.Equal(t, []string{"sqlflow_models"}, runner.requests[0].Modules)

	stdout, _, err := execute(t, "--config", testCatalog, "--snapshot", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"Adam": {`)
}

func TestModules(t *testing.T) {
	stdout, _, err := execute(t, "modules", "sqlflow_models", "--snapshot", testSnapshot)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"sqlflow_models.DNNClassifier": {
			"feature_columns": "feature columns. :type feature_columns: list[tf.feature_column].",
			"hidden_units": "number of hidden units. :type hidden_units: list[int].",
			"n_classes": "List of hidden units per layer. :type n_classes: int."
		},
		"sqlflow_models.LSTMBasedTimeSeriesModel": {
			"stack_units": "Number of units for each LSTM layer."
		}
	}`, stdout)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
}

func TestModulesRequiresArgument(t *testing.T) {
	_, _, err := execute(t, "modules")
	assert.Error(t, err)
}

func TestVerboseLogsToStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "--verbose", "--config", testCatalog, "--snapshot", testSnapshot)
	require.NoError(t, err)
	assert.Equal(t, golden(t), stdout)
	assert.Contains(t, stderr, "level=DEBUG msg=extracted key=DNNClassifier")
}
