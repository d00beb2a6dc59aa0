// Package report assembles parameter documentation into the aggregate
// reports written to the generated source file.
package report

import (
	"context"
	"fmt"

	"github.com/awsl-dbq/sqlflow/internal/catalog"
	"github.com/awsl-dbq/sqlflow/internal/ctxlog"
	"github.com/awsl-dbq/sqlflow/pkg/docstring"
)

// Report is the documentation of every catalog key of one constant.
type Report struct {
	Const string
	Docs  map[string]docstring.Params
}

// Build extracts the documentation of every catalog entry from callables,
// keyed by target. A missing target is an error.
func Build[C docstring.Callable](ctx context.Context, cat *catalog.Catalog, callables map[string]C) ([]Report, error) {
	log := ctxlog.FromContext(ctx)

	reports := make([]Report, 0, len(cat.Reports))
	for _, r := range cat.Reports {
		rep := Report{Const: r.Const, Docs: map[string]docstring.Params{}}
		for _, e := range r.Entries {
			c, ok := callables[e.Target]
			if !ok {
				return nil, fmt.Errorf("report %s: no symbol for %s (key %s)", r.Const, e.Target, e.Key)
			}

			params := docstring.Extract(c, cat.PrefixFor(r, e))
			for _, name := range e.Drop {
				if _, ok := params[name]; !ok {
					log.Warn("dropped parameter is not documented", "key", e.Key, "param", name)
				}
				delete(params, name)
			}
			log.Debug("extracted", "key", e.Key, "target", e.Target, "params", len(params))

			rep.Docs[e.Key] = params
			for _, alias := range e.Aliases {
				rep.Docs[alias] = params.Clone()
			}
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// Collect extracts every callable with the same prefix, keyed like the input.
func Collect[C docstring.Callable](prefix string, callables map[string]C) map[string]docstring.Params {
	out := make(map[string]docstring.Params, len(callables))
	for name, c := range callables {
		out[name] = docstring.Extract(c, prefix)
	}
	return out
}
