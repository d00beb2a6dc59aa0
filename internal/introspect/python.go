package introspect

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/awsl-dbq/sqlflow/internal/ctxlog"
)

//go:embed introspect.py
var helperScript string

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

// Runner executes a Python program with the given stdin and returns its
// stdout. It is the seam tests replace.
type Runner interface {
	Run(ctx context.Context, script string, stdin []byte) ([]byte, error)
}

// ExecRunner runs scripts with a Python interpreter found on PATH.
type ExecRunner struct {
	Python string
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, script string, stdin []byte) ([]byte, error) {
	python := r.Python
	if python == "" {
		python = DefaultPython
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, python, "-c", script) // #nosec G204
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", python, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", python, err)
	}
	return stdout.Bytes(), nil
}

// lastLine returns the final non-empty line of a traceback, which carries
// the exception message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// PythonSource describes symbols by importing them in a Python interpreter.
type PythonSource struct {
	runner Runner
}

// NewPythonSource returns a source backed by runner. A nil runner uses
// ExecRunner with DefaultPython.
func NewPythonSource(runner Runner) *PythonSource {
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &PythonSource{runner: runner}
}

// Lookup implements Source.
func (p *PythonSource) Lookup(ctx context.Context, req Request) ([]Symbol, error) {
	log := ctxlog.FromContext(ctx)

	in, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode introspection request: %w", err)
	}

	log.Debug("introspecting", "targets", len(req.Targets), "modules", len(req.Modules))
	out, err := p.runner.Run(ctx, helperScript, in)
	if err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}

	var resp struct {
		Symbols []Symbol `json:"symbols"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("decode introspection output: %w", err)
	}

	idx := Index(resp.Symbols)
	for _, t := range req.Targets {
		if _, ok := idx[t]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, t)
		}
	}
	log.Debug("introspected", "symbols", len(resp.Symbols))
	return resp.Symbols, nil
}
