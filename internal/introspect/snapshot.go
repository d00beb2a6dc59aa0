package introspect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Snapshot is the on-disk form of introspected symbols. YAML and JSON are
// both accepted when reading.
type Snapshot struct {
	Symbols []Symbol `json:"symbols" yaml:"symbols" validate:"dive"`
}

// SnapshotSource serves symbols recorded earlier, so generation works
// without the inspected libraries installed.
type SnapshotSource struct {
	symbols []Symbol
	index   map[string]Symbol
}

// NewSnapshotSource wraps an in-memory symbol list.
func NewSnapshotSource(symbols []Symbol) *SnapshotSource {
	return &SnapshotSource{symbols: symbols, index: Index(symbols)}
}

// LoadSnapshot reads a snapshot file.
func LoadSnapshot(path string) (*SnapshotSource, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes and validates snapshot data.
func ParseSnapshot(data []byte) (*SnapshotSource, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := validate.Struct(snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return NewSnapshotSource(snap.Symbols), nil
}

// Lookup implements Source.
func (s *SnapshotSource) Lookup(_ context.Context, req Request) ([]Symbol, error) {
	var out []Symbol
	for _, t := range req.Targets {
		sym, ok := s.index[t]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, t)
		}
		out = append(out, sym)
	}
	for _, m := range req.Modules {
		members := s.members(m)
		if len(members) == 0 {
			return nil, fmt.Errorf("%w: module %s", ErrTargetNotFound, m)
		}
		out = append(out, members...)
	}
	return out, nil
}

// members returns the symbols directly inside module, in snapshot order.
func (s *SnapshotSource) members(module string) []Symbol {
	var out []Symbol
	for _, sym := range s.symbols {
		rest, ok := strings.CutPrefix(sym.Name, module+".")
		if ok && rest != "" && !strings.Contains(rest, ".") {
			out = append(out, sym)
		}
	}
	return out
}

// WriteSnapshot encodes symbols as YAML.
func WriteSnapshot(w io.Writer, symbols []Symbol) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Snapshot{Symbols: symbols}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
