// Package docstring extracts constructor parameter documentation from the
// free-text docstrings of introspected classes and functions.
package docstring

import "errors"

// ErrNoInitDoc is returned by Initializer implementations when the
// initializer documentation cannot be retrieved.
var ErrNoInitDoc = errors.New("docstring: initializer documentation unavailable")

// Callable is a class or function whose formal parameters and docstring
// can be inspected.
type Callable interface {
	// Parameters returns the formal parameter names in signature order.
	Parameters() []string
	// Docstring returns the callable's own documentation string and
	// whether it has one at all.
	Docstring() (string, bool)
}

// Initializer is implemented by callables that carry a separate docstring
// on their initializer. It takes precedence over Callable.Docstring when it
// yields a non-empty string.
type Initializer interface {
	InitDocstring() (string, error)
}

// Func is a static Callable.
type Func struct {
	Params []string
	Doc    string
	// Init, when non-empty, is reported as the initializer docstring.
	Init string
}

// Parameters implements Callable.
func (f Func) Parameters() []string { return f.Params }

// Docstring implements Callable.
func (f Func) Docstring() (string, bool) { return f.Doc, f.Doc != "" }

// InitDocstring implements Initializer.
func (f Func) InitDocstring() (string, error) {
	if f.Init == "" {
		return "", ErrNoInitDoc
	}
	return f.Init, nil
}

// resolveDoc picks the initializer docstring when present, then the
// callable's own docstring, then the empty string.
func resolveDoc(c Callable) string {
	if init, ok := c.(Initializer); ok {
		if doc, err := init.InitDocstring(); err == nil && doc != "" {
			return doc
		}
	}
	if doc, ok := c.Docstring(); ok {
		return doc
	}
	return ""
}
