// Package introspect obtains signatures and docstrings of Python classes,
// either from a live interpreter or from a snapshot file.
package introspect

import (
	"context"
	"errors"
	"fmt"

	"github.com/awsl-dbq/sqlflow/pkg/docstring"
)

// ErrTargetNotFound is returned when a requested target cannot be resolved.
var ErrTargetNotFound = errors.New("target not found")

// Symbol is a serialisable description of a class or function.
type Symbol struct {
	Name   string   `json:"name" yaml:"name" validate:"required"`
	Params []string `json:"params" yaml:"params" validate:"dive,required"`
	// Doc is the symbol's own docstring, nil when it has none.
	Doc *string `json:"doc" yaml:"doc,omitempty"`
	// InitDoc is the initializer docstring, nil when unavailable.
	InitDoc *string `json:"init_doc" yaml:"init_doc,omitempty"`
	// InitDocError records why the initializer docstring could not be read.
	InitDocError string `json:"init_doc_error,omitempty" yaml:"init_doc_error,omitempty"`
}

var (
	_ docstring.Callable    = Symbol{}
	_ docstring.Initializer = Symbol{}
)

// Parameters implements docstring.Callable.
func (s Symbol) Parameters() []string { return s.Params }

// Docstring implements docstring.Callable.
func (s Symbol) Docstring() (string, bool) {
	if s.Doc == nil {
		return "", false
	}
	return *s.Doc, true
}

// InitDocstring implements docstring.Initializer.
func (s Symbol) InitDocstring() (string, error) {
	if s.InitDocError != "" {
		return "", fmt.Errorf("%w: %s", docstring.ErrNoInitDoc, s.InitDocError)
	}
	if s.InitDoc == nil {
		return "", docstring.ErrNoInitDoc
	}
	return *s.InitDoc, nil
}

// Request lists what a Source should describe.
type Request struct {
	// Targets are dotted paths such as "xgboost.XGBModel".
	Targets []string `json:"targets"`
	// Modules are module names whose classes are all described, each named
	// "<module>.<Class>".
	Modules []string `json:"modules"`
}

// Source resolves a Request into symbols. Every target must be resolved or
// the whole lookup fails.
type Source interface {
	Lookup(ctx context.Context, req Request) ([]Symbol, error)
}

// Index keys symbols by name.
func Index(symbols []Symbol) map[string]Symbol {
	idx := make(map[string]Symbol, len(symbols))
	for _, s := range symbols {
		idx[s.Name] = s
	}
	return idx
}
